package cli

import (
	"github.com/couchcryptid/arc-flash-service/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

type StudyOptions struct {
	GlobalOptions

	ArcFlash     domain.ArcFlashInputs
	ShortCircuit domain.ShortCircuitInputs
}

func DefaultStudyOptions(clock clockwork.Clock) *StudyOptions {
	return &StudyOptions{GlobalOptions: DefaultGlobalOptions(clock)}
}

func NewCmdStudy(clock clockwork.Clock) *cobra.Command {
	o := DefaultStudyOptions(clock)
	cmd := &cobra.Command{
		Use:   "study",
		Short: "Estimate fault current from transformer data, then calculate the arc flash with it.",
		Example: `  calc study --transformer-kva 1000 --secondary-voltage-v 380 --impedance-percent 5 \
    --voltage-kv 0.38 --duration-s 0.1 --location "Electrical room 1"`,
		Args: cobra.NoArgs,
		RunE: runE(&o.GlobalOptions, func() domain.CalculationRequest {
			af, sc := o.ArcFlash, o.ShortCircuit
			return domain.CalculationRequest{Kind: domain.KindStudy, ArcFlash: &af, ShortCircuit: &sc}
		}),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	bindArcFlashInputs(cmd.Flags(), &o.ArcFlash, false)
	bindShortCircuitInputs(cmd.Flags(), &o.ShortCircuit)
	for _, name := range []string{"voltage-kv", "duration-s", "transformer-kva", "secondary-voltage-v", "impedance-percent"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
