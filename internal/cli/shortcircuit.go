package cli

import (
	"github.com/couchcryptid/arc-flash-service/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type ShortCircuitOptions struct {
	GlobalOptions

	Inputs domain.ShortCircuitInputs
}

func DefaultShortCircuitOptions(clock clockwork.Clock) *ShortCircuitOptions {
	return &ShortCircuitOptions{GlobalOptions: DefaultGlobalOptions(clock)}
}

func NewCmdShortCircuit(clock clockwork.Clock) *cobra.Command {
	o := DefaultShortCircuitOptions(clock)
	cmd := &cobra.Command{
		Use:     "short-circuit",
		Short:   "Estimate the available fault current at a transformer secondary.",
		Example: `  calc short-circuit --transformer-kva 1000 --secondary-voltage-v 380 --impedance-percent 5 --motor-contribution`,
		Args:    cobra.NoArgs,
		RunE: runE(&o.GlobalOptions, func() domain.CalculationRequest {
			in := o.Inputs
			return domain.CalculationRequest{Kind: domain.KindShortCircuit, ShortCircuit: &in}
		}),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	bindShortCircuitInputs(cmd.Flags(), &o.Inputs)
	_ = cmd.MarkFlagRequired("transformer-kva")
	_ = cmd.MarkFlagRequired("secondary-voltage-v")
	_ = cmd.MarkFlagRequired("impedance-percent")
	return cmd
}

func bindShortCircuitInputs(fs *pflag.FlagSet, in *domain.ShortCircuitInputs) {
	fs.Float64Var(&in.TransformerPowerKVA, "transformer-kva", 0, "Transformer rated power in kVA.")
	fs.Float64Var(&in.SecondaryVoltageV, "secondary-voltage-v", 0, "Secondary line-to-line voltage in V.")
	fs.Float64Var(&in.ImpedancePercent, "impedance-percent", 0, "Transformer impedance in percent.")
	fs.BoolVar(&in.IncludeMotorContribution, "motor-contribution", false, "Add the motor contribution to the total.")
}
