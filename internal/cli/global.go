// Package cli implements the calc command line tool. Every subcommand runs
// its inputs through pipeline.Processor, so output matches what the service
// returns for the same request.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/arc-flash-service/internal/domain"
	"github.com/couchcryptid/arc-flash-service/internal/observability"
	"github.com/couchcryptid/arc-flash-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
)

const (
	tableFormat = "table"
	jsonFormat  = "json"
	yamlFormat  = "yaml"
)

var legalOutputTypes = []string{tableFormat, jsonFormat, yamlFormat}

type GlobalOptions struct {
	Output string

	clock clockwork.Clock
}

func DefaultGlobalOptions(clock clockwork.Clock) GlobalOptions {
	return GlobalOptions{
		Output: tableFormat,
		clock:  clock,
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
}

func (o *GlobalOptions) Validate() error {
	if !funk.Contains(legalOutputTypes, o.Output) {
		return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
	}
	return nil
}

// calculate runs req, prints the envelope, and returns an error when the
// envelope reports a failure so the process exits non-zero.
func (o *GlobalOptions) calculate(ctx context.Context, cmd *cobra.Command, req domain.CalculationRequest) error {
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	metrics := observability.NewMetricsWithRegistry(prometheus.NewRegistry())
	proc := pipeline.NewProcessor(o.clock, logger, metrics)

	result := proc.Process(ctx, req)
	if err := printResult(cmd.OutOrStdout(), o.Output, result); err != nil {
		return err
	}
	if result.Status != domain.StatusOK {
		return fmt.Errorf("calculation failed: %s", result.Error.Message)
	}
	return nil
}

// runE wraps the Validate/calculate sequence every subcommand shares.
func runE(o *GlobalOptions, build func() domain.CalculationRequest) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if err := o.Validate(); err != nil {
			return err
		}
		return o.calculate(cmd.Context(), cmd, build())
	}
}
