package domain

import (
	"fmt"
	"math"
)

// VoltageClass selects the regression coefficients and standard geometry.
type VoltageClass int

const (
	// LowVoltage is any system below 1 kV.
	LowVoltage VoltageClass = iota
	// MediumVoltage is any system at or above 1 kV.
	MediumVoltage
)

// MediumVoltageThresholdKV is the lowest voltage treated as MediumVoltage.
const MediumVoltageThresholdKV = 1.0

func (c VoltageClass) String() string {
	switch c {
	case LowVoltage:
		return "low_voltage"
	case MediumVoltage:
		return "medium_voltage"
	default:
		return "unknown"
	}
}

func (c VoltageClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *VoltageClass) UnmarshalText(text []byte) error {
	switch string(text) {
	case "low_voltage":
		*c = LowVoltage
	case "medium_voltage":
		*c = MediumVoltage
	default:
		return fmt.Errorf("unknown voltage class %q", text)
	}
	return nil
}

// ClassifyVoltage returns the voltage class for a nominal system voltage.
func ClassifyVoltage(voltageKV float64) VoltageClass {
	if voltageKV >= MediumVoltageThresholdKV {
		return MediumVoltage
	}
	return LowVoltage
}

// VoltageBand selects the voltage correction factor.
type VoltageBand int

const (
	// BandBelow600V covers V < 0.6 kV.
	BandBelow600V VoltageBand = iota
	// Band600VTo1kV covers 0.6 kV ≤ V < 1 kV.
	Band600VTo1kV
	// BandAbove1kV covers V ≥ 1 kV.
	BandAbove1kV
)

// ClassifyVoltageBand returns the correction band for a nominal voltage.
func ClassifyVoltageBand(voltageKV float64) VoltageBand {
	switch {
	case voltageKV < 0.6:
		return BandBelow600V
	case voltageKV < MediumVoltageThresholdKV:
		return Band600VTo1kV
	default:
		return BandAbove1kV
	}
}

// Coefficients are the regression terms of the incident energy model.
type Coefficients struct {
	KBase            float64 `json:"k_base"`
	KCurrent         float64 `json:"k_i"`
	KGap             float64 `json:"k_gap"`
	DistanceExponent float64 `json:"distance_exponent"`
}

// StandardGeometry holds the default gap and working distance for a class.
type StandardGeometry struct {
	GapMM      float64
	DistanceMM float64
}

// Per-class rows. Low and medium voltage share coefficients today.
var (
	coefficientTable = [...]Coefficients{
		LowVoltage:    {KBase: -0.555, KCurrent: 1.081, KGap: 0.0011, DistanceExponent: 2.0},
		MediumVoltage: {KBase: -0.555, KCurrent: 1.081, KGap: 0.0011, DistanceExponent: 2.0},
	}

	geometryTable = [...]StandardGeometry{
		LowVoltage:    {GapMM: 25.0, DistanceMM: 457.2},
		MediumVoltage: {GapMM: 152.0, DistanceMM: 914.0},
	}

	voltageFactorTable = [...]float64{
		BandBelow600V: 0.85,
		Band600VTo1kV: 1.0,
		BandAbove1kV:  1.15,
	}
)

const (
	// ReferenceArcDurationS normalizes arc duration in the time factor.
	ReferenceArcDurationS = 0.2
	// ReferenceDistanceMM normalizes working distance in the distance factor.
	ReferenceDistanceMM = 610.0
)

// Configuration is the electrode configuration label reported with every result
// (vertical conductors in a box).
const Configuration = "VCB"

// CoefficientsFor returns the regression coefficients for a voltage class.
// ok is false for an unknown class.
func CoefficientsFor(class VoltageClass) (coef Coefficients, ok bool) {
	if class < 0 || int(class) >= len(coefficientTable) {
		return Coefficients{}, false
	}
	return coefficientTable[class], true
}

// StandardGeometryFor returns the default gap and working distance for a class.
// ok is false for an unknown class.
func StandardGeometryFor(class VoltageClass) (geometry StandardGeometry, ok bool) {
	if class < 0 || int(class) >= len(geometryTable) {
		return StandardGeometry{}, false
	}
	return geometryTable[class], true
}

// VoltageFactor returns the correction factor for a voltage band.
// ok is false for an unknown band.
func VoltageFactor(band VoltageBand) (factor float64, ok bool) {
	if band < 0 || int(band) >= len(voltageFactorTable) {
		return 0, false
	}
	return voltageFactorTable[band], true
}

// ArcFlashInputs are the parameters of one arc-flash calculation. GapMM and
// WorkingDistanceMM of 0 select the standard default for the voltage class.
type ArcFlashInputs struct {
	Location         string `json:"location,omitempty"`
	EquipmentPrimary string `json:"equipment_primary,omitempty"`
	EquipmentDetail  string `json:"equipment_detail,omitempty"`

	VoltageKV            float64 `json:"voltage_kv" validate:"gt=0"`
	BoltedFaultCurrentKA float64 `json:"bolted_fault_current_ka" validate:"gte=0"`
	ArcDurationS         float64 `json:"arc_duration_s" validate:"gt=0"`
	GapMM                float64 `json:"gap_mm" validate:"gte=0"`
	WorkingDistanceMM    float64 `json:"working_distance_mm" validate:"gte=0"`
}

// ArcFlashResult is the full record of an arc-flash calculation: inputs,
// effective geometry, coefficients, intermediate quantities, and the outcome.
type ArcFlashResult struct {
	Inputs ArcFlashInputs `json:"inputs"`

	VoltageClass  VoltageClass `json:"voltage_class"`
	Configuration string       `json:"configuration"`

	EffectiveGapMM      float64 `json:"effective_gap_mm"`
	EffectiveDistanceMM float64 `json:"effective_distance_mm"`
	GapDefaulted        bool    `json:"gap_defaulted"`
	DistanceDefaulted   bool    `json:"distance_defaulted"`

	Coefficients Coefficients `json:"coefficients"`

	Log10Current    float64 `json:"log10_current"`
	Log10Gap        float64 `json:"log10_gap"`
	Log10EnergyBase float64 `json:"log10_energy_base"`
	EnergyBase      float64 `json:"energy_base"`
	TimeFactor      float64 `json:"time_factor"`
	DistanceFactor  float64 `json:"distance_factor"`
	VoltageFactor   float64 `json:"voltage_factor"`

	IncidentEnergyCalPerCm2 float64  `json:"incident_energy_cal_per_cm2"`
	Category                Category `json:"category"`
}

// ComputeArcFlash calculates incident energy and hazard category. It fails with
// an *InvalidInputError when voltage, bolted fault current, or arc duration is
// not strictly positive, or when the inputs are so extreme that the energy is
// not a finite number.
func ComputeArcFlash(in ArcFlashInputs) (ArcFlashResult, error) {
	if err := requirePositive(KindArcFlash, "voltage_kv", in.VoltageKV); err != nil {
		return ArcFlashResult{}, err
	}
	if err := requirePositive(KindArcFlash, "bolted_fault_current_ka", in.BoltedFaultCurrentKA); err != nil {
		return ArcFlashResult{}, err
	}
	if err := requirePositive(KindArcFlash, "arc_duration_s", in.ArcDurationS); err != nil {
		return ArcFlashResult{}, err
	}

	// ClassifyVoltage and ClassifyVoltageBand only return known rows.
	class := ClassifyVoltage(in.VoltageKV)
	geometry, _ := StandardGeometryFor(class)
	coef, _ := CoefficientsFor(class)
	voltageFactor, _ := VoltageFactor(ClassifyVoltageBand(in.VoltageKV))

	gap, gapDefaulted := resolveDefault(in.GapMM, geometry.GapMM)
	distance, distanceDefaulted := resolveDefault(in.WorkingDistanceMM, geometry.DistanceMM)

	log10Current := math.Log10(in.BoltedFaultCurrentKA)
	log10EnergyBase := coef.KBase + coef.KCurrent*log10Current + coef.KGap*gap
	energyBase := math.Pow(10, log10EnergyBase)
	timeFactor := in.ArcDurationS / ReferenceArcDurationS
	distanceFactor := math.Pow(ReferenceDistanceMM/distance, coef.DistanceExponent)

	energy := energyBase * timeFactor * distanceFactor * voltageFactor

	// Every factor is non-negative, so an overflow anywhere shows up here as
	// +Inf or NaN.
	if err := requireFinite(KindArcFlash, energy,
		contribution{"bolted_fault_current_ka", in.BoltedFaultCurrentKA, coef.KCurrent * log10Current},
		contribution{"gap_mm", in.GapMM, coef.KGap * gap},
		contribution{"arc_duration_s", in.ArcDurationS, math.Log10(timeFactor)},
		contribution{"working_distance_mm", in.WorkingDistanceMM, math.Log10(distanceFactor)},
	); err != nil {
		return ArcFlashResult{}, err
	}

	return ArcFlashResult{
		Inputs:                  in,
		VoltageClass:            class,
		Configuration:           Configuration,
		EffectiveGapMM:          gap,
		EffectiveDistanceMM:     distance,
		GapDefaulted:            gapDefaulted,
		DistanceDefaulted:       distanceDefaulted,
		Coefficients:            coef,
		Log10Current:            log10Current,
		Log10Gap:                math.Log10(gap),
		Log10EnergyBase:         log10EnergyBase,
		EnergyBase:              energyBase,
		TimeFactor:              timeFactor,
		DistanceFactor:          distanceFactor,
		VoltageFactor:           voltageFactor,
		IncidentEnergyCalPerCm2: energy,
		Category:                ClassifyIncidentEnergy(energy),
	}, nil
}

// resolveDefault substitutes the standard value for a non-positive entry.
func resolveDefault(value, standard float64) (float64, bool) {
	if value > 0 {
		return value, false
	}
	return standard, true
}
