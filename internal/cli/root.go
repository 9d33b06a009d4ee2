package cli

import (
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

// NewCmdCalc builds the calc root command. The clock stamps calculated_at.
func NewCmdCalc(clock clockwork.Clock) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc [command] [flags]",
		Short: "calc runs arc flash and short-circuit calculations.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(NewCmdArcFlash(clock))
	cmd.AddCommand(NewCmdShortCircuit(clock))
	cmd.AddCommand(NewCmdStudy(clock))
	return cmd
}
