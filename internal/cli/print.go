package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/couchcryptid/arc-flash-service/internal/domain"
	"sigs.k8s.io/yaml"
)

func printResult(w io.Writer, output string, result domain.CalculationResult) error {
	switch output {
	case jsonFormat:
		marshalled, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling result: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", marshalled)
		return err
	case yamlFormat:
		marshalled, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("marshalling result: %w", err)
		}
		_, err = w.Write(marshalled)
		return err
	default:
		return printTable(w, result)
	}
}

func printTable(out io.Writer, result domain.CalculationResult) error {
	w := tabwriter.NewWriter(out, 0, 8, 1, '\t', 0)
	fmt.Fprintf(w, "ID\t%s\n", result.ID)
	fmt.Fprintf(w, "KIND\t%s\n", result.Kind)
	fmt.Fprintf(w, "STATUS\t%s\n", result.Status)
	fmt.Fprintf(w, "CALCULATED AT\t%s\n", result.CalculatedAt.Format(time.RFC3339))

	if result.Error != nil {
		fmt.Fprintf(w, "ERROR\t%s\n", result.Error.Message)
		if result.Error.Field != "" {
			fmt.Fprintf(w, "FIELD\t%s\n", result.Error.Field)
		}
	}
	if sc := result.ShortCircuit; sc != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "NOMINAL CURRENT (A)\t%.2f\n", sc.NominalCurrentA)
		fmt.Fprintf(w, "TRANSFORMER FAULT CURRENT (kA)\t%.2f\n", sc.TransformerFaultCurrentKA)
		fmt.Fprintf(w, "MOTOR CONTRIBUTION (kA)\t%.2f\n", sc.MotorContributionKA)
		fmt.Fprintf(w, "TOTAL FAULT CURRENT (kA)\t%.2f\n", sc.TotalFaultCurrentKA)
	}
	if af := result.ArcFlash; af != nil {
		fmt.Fprintln(w)
		if af.Inputs.Location != "" {
			fmt.Fprintf(w, "LOCATION\t%s\n", af.Inputs.Location)
		}
		if af.Inputs.EquipmentPrimary != "" {
			fmt.Fprintf(w, "EQUIPMENT\t%s %s\n", af.Inputs.EquipmentPrimary, af.Inputs.EquipmentDetail)
		}
		fmt.Fprintf(w, "VOLTAGE (kV)\t%g (%s)\n", af.Inputs.VoltageKV, af.VoltageClass)
		fmt.Fprintf(w, "BOLTED FAULT CURRENT (kA)\t%.2f\n", af.Inputs.BoltedFaultCurrentKA)
		fmt.Fprintf(w, "ARC DURATION (s)\t%g\n", af.Inputs.ArcDurationS)
		fmt.Fprintf(w, "GAP (mm)\t%g%s\n", af.EffectiveGapMM, defaultedMark(af.GapDefaulted))
		fmt.Fprintf(w, "WORKING DISTANCE (mm)\t%g%s\n", af.EffectiveDistanceMM, defaultedMark(af.DistanceDefaulted))
		fmt.Fprintf(w, "INCIDENT ENERGY (cal/cm²)\t%.2f\n", af.IncidentEnergyCalPerCm2)
		fmt.Fprintf(w, "CATEGORY\t%s (%s)\n", af.Category, af.Category.Color())
	}
	return w.Flush()
}

func defaultedMark(defaulted bool) string {
	if defaulted {
		return " (standard)"
	}
	return ""
}
