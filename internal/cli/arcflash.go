package cli

import (
	"github.com/couchcryptid/arc-flash-service/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type ArcFlashOptions struct {
	GlobalOptions

	Inputs domain.ArcFlashInputs
}

func DefaultArcFlashOptions(clock clockwork.Clock) *ArcFlashOptions {
	return &ArcFlashOptions{GlobalOptions: DefaultGlobalOptions(clock)}
}

func NewCmdArcFlash(clock clockwork.Clock) *cobra.Command {
	o := DefaultArcFlashOptions(clock)
	cmd := &cobra.Command{
		Use:   "arc-flash",
		Short: "Calculate incident energy and hazard category at a working position.",
		Example: `  calc arc-flash --voltage-kv 13.8 --fault-current-ka 17 --duration-s 0.5
  calc arc-flash --voltage-kv 0.48 --fault-current-ka 20 --duration-s 0.1 --gap-mm 32 -o json`,
		Args: cobra.NoArgs,
		RunE: runE(&o.GlobalOptions, func() domain.CalculationRequest {
			in := o.Inputs
			return domain.CalculationRequest{Kind: domain.KindArcFlash, ArcFlash: &in}
		}),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	bindArcFlashInputs(cmd.Flags(), &o.Inputs, true)
	_ = cmd.MarkFlagRequired("voltage-kv")
	_ = cmd.MarkFlagRequired("fault-current-ka")
	_ = cmd.MarkFlagRequired("duration-s")
	return cmd
}

// bindArcFlashInputs registers the arc-flash flags. The fault current flag is
// left out for studies, where the estimate supplies it.
func bindArcFlashInputs(fs *pflag.FlagSet, in *domain.ArcFlashInputs, withCurrent bool) {
	fs.Float64Var(&in.VoltageKV, "voltage-kv", 0, "System voltage in kV.")
	if withCurrent {
		fs.Float64Var(&in.BoltedFaultCurrentKA, "fault-current-ka", 0, "Bolted fault current in kA.")
	}
	fs.Float64Var(&in.ArcDurationS, "duration-s", 0, "Arc duration (protective device clearing time) in seconds.")
	fs.Float64Var(&in.GapMM, "gap-mm", 0, "Conductor gap in mm. 0 uses the standard gap for the voltage class.")
	fs.Float64Var(&in.WorkingDistanceMM, "distance-mm", 0, "Working distance in mm. 0 uses the standard distance for the voltage class.")
	fs.StringVar(&in.Location, "location", "", "Location label for the report.")
	fs.StringVar(&in.EquipmentPrimary, "equipment", "", "Primary equipment label.")
	fs.StringVar(&in.EquipmentDetail, "equipment-detail", "", "Equipment detail label.")
}
