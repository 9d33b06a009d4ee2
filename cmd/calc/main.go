package main

import (
	"os"

	"github.com/couchcryptid/arc-flash-service/internal/cli"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := cli.NewCmdCalc(clockwork.NewRealClock()).Execute(); err != nil {
		os.Exit(1)
	}
}
