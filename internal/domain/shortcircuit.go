package domain

import "math"

// MotorContributionMultiplier approximates locked-rotor contribution as a
// multiple of transformer nominal current.
const MotorContributionMultiplier = 4.0

// ShortCircuitInputs is the transformer nameplate data for a fault estimate.
type ShortCircuitInputs struct {
	TransformerPowerKVA      float64 `json:"transformer_power_kva" validate:"gt=0"`
	SecondaryVoltageV        float64 `json:"secondary_voltage_v" validate:"gt=0"`
	ImpedancePercent         float64 `json:"impedance_percent" validate:"gt=0"`
	IncludeMotorContribution bool    `json:"include_motor_contribution"`
}

// ShortCircuitResult is the estimated fault current at the transformer secondary.
type ShortCircuitResult struct {
	Inputs ShortCircuitInputs `json:"inputs"`

	NominalCurrentA           float64 `json:"nominal_current_a"`
	TransformerFaultCurrentKA float64 `json:"transformer_fault_current_ka"`
	MotorContributionKA       float64 `json:"motor_contribution_ka"`
	TotalFaultCurrentKA       float64 `json:"total_fault_current_ka"`
}

// ComputeShortCircuit estimates the available fault current. It fails with an
// *InvalidInputError when power, voltage, or impedance is not strictly positive,
// or when the estimate overflows.
func ComputeShortCircuit(in ShortCircuitInputs) (ShortCircuitResult, error) {
	if err := requirePositive(KindShortCircuit, "transformer_power_kva", in.TransformerPowerKVA); err != nil {
		return ShortCircuitResult{}, err
	}
	if err := requirePositive(KindShortCircuit, "secondary_voltage_v", in.SecondaryVoltageV); err != nil {
		return ShortCircuitResult{}, err
	}
	if err := requirePositive(KindShortCircuit, "impedance_percent", in.ImpedancePercent); err != nil {
		return ShortCircuitResult{}, err
	}

	nominalA := (in.TransformerPowerKVA * 1000) / (math.Sqrt(3) * in.SecondaryVoltageV)
	transformerA := nominalA / (in.ImpedancePercent / 100)

	var motorA float64
	if in.IncludeMotorContribution {
		motorA = MotorContributionMultiplier * nominalA
	}

	transformerKA := transformerA / 1000
	motorKA := motorA / 1000
	totalKA := transformerKA + motorKA

	if err := requireFinite(KindShortCircuit, totalKA,
		contribution{"transformer_power_kva", in.TransformerPowerKVA, math.Log10(in.TransformerPowerKVA * 1000)},
		contribution{"secondary_voltage_v", in.SecondaryVoltageV, math.Log10(in.SecondaryVoltageV)},
		contribution{"impedance_percent", in.ImpedancePercent, math.Log10(in.ImpedancePercent / 100)},
	); err != nil {
		return ShortCircuitResult{}, err
	}

	return ShortCircuitResult{
		Inputs:                    in,
		NominalCurrentA:           nominalA,
		TransformerFaultCurrentKA: transformerKA,
		MotorContributionKA:       motorKA,
		TotalFaultCurrentKA:       totalKA,
	}, nil
}
