package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeArcFlash_MediumVoltageDefaults(t *testing.T) {
	result, err := ComputeArcFlash(ArcFlashInputs{
		Location:             "Substation 01",
		EquipmentPrimary:     "Main switchgear",
		EquipmentDetail:      "Incoming breaker",
		VoltageKV:            13.8,
		BoltedFaultCurrentKA: 17.0,
		ArcDurationS:         0.5,
	})
	require.NoError(t, err)

	assert.Equal(t, MediumVoltage, result.VoltageClass)
	assert.Equal(t, "VCB", result.Configuration)
	assert.Equal(t, 152.0, result.EffectiveGapMM)
	assert.Equal(t, 914.0, result.EffectiveDistanceMM)
	assert.True(t, result.GapDefaulted)
	assert.True(t, result.DistanceDefaulted)
	assert.Equal(t, 1.15, result.VoltageFactor)
	assert.Equal(t, 2.0, result.Coefficients.DistanceExponent)

	assert.InDelta(t, 1.230449, result.Log10Current, 1e-6)
	assert.InDelta(t, 2.181844, result.Log10Gap, 1e-6)
	assert.InDelta(t, 0.942315, result.Log10EnergyBase, 1e-6)
	assert.InDelta(t, 8.756192, result.EnergyBase, 1e-5)
	assert.InDelta(t, 2.5, result.TimeFactor, 1e-12)
	assert.InDelta(t, 0.445418, result.DistanceFactor, 1e-6)
	assert.InDelta(t, 11.212964, result.IncidentEnergyCalPerCm2, 1e-5)
	assert.Equal(t, Category3Or4, result.Category)

	// Identification labels are carried through untouched.
	assert.Equal(t, "Substation 01", result.Inputs.Location)
	assert.Equal(t, "Main switchgear", result.Inputs.EquipmentPrimary)
	assert.Equal(t, "Incoming breaker", result.Inputs.EquipmentDetail)
}

func TestComputeArcFlash_LowVoltageDefaults(t *testing.T) {
	result, err := ComputeArcFlash(ArcFlashInputs{
		VoltageKV:            0.48,
		BoltedFaultCurrentKA: 20.0,
		ArcDurationS:         0.1,
	})
	require.NoError(t, err)

	assert.Equal(t, LowVoltage, result.VoltageClass)
	assert.Equal(t, 25.0, result.EffectiveGapMM)
	assert.Equal(t, 457.2, result.EffectiveDistanceMM)
	assert.Equal(t, 0.85, result.VoltageFactor)
	assert.InDelta(t, 5.724658, result.IncidentEnergyCalPerCm2, 1e-5)
	assert.Equal(t, Category2, result.Category)
}

func TestComputeArcFlash_IntermediateBandUsesNeutralFactor(t *testing.T) {
	result, err := ComputeArcFlash(ArcFlashInputs{
		VoltageKV:            0.75,
		BoltedFaultCurrentKA: 20.0,
		ArcDurationS:         0.1,
	})
	require.NoError(t, err)

	// Still low-voltage geometry, but the neutral correction factor.
	assert.Equal(t, LowVoltage, result.VoltageClass)
	assert.Equal(t, 25.0, result.EffectiveGapMM)
	assert.Equal(t, 1.0, result.VoltageFactor)
	assert.InDelta(t, 6.734892, result.IncidentEnergyCalPerCm2, 1e-5)
}

func TestComputeArcFlash_ManualGeometry(t *testing.T) {
	result, err := ComputeArcFlash(ArcFlashInputs{
		VoltageKV:            13.8,
		BoltedFaultCurrentKA: 17.0,
		ArcDurationS:         0.2,
		GapMM:                100,
		WorkingDistanceMM:    610,
	})
	require.NoError(t, err)

	assert.False(t, result.GapDefaulted)
	assert.False(t, result.DistanceDefaulted)
	assert.Equal(t, 100.0, result.EffectiveGapMM)
	assert.Equal(t, 610.0, result.EffectiveDistanceMM)
	assert.Equal(t, 1.0, result.DistanceFactor)
	assert.Equal(t, 1.0, result.TimeFactor)

	want := result.EnergyBase * 1.15
	assert.InDelta(t, want, result.IncidentEnergyCalPerCm2, 1e-12)
}

func TestComputeArcFlash_MixedGeometry(t *testing.T) {
	tests := []struct {
		name                  string
		voltageKV             float64
		gapMM                 float64
		distanceMM            float64
		wantGap               float64
		wantDistance          float64
		wantGapDefaulted      bool
		wantDistanceDefaulted bool
	}{
		{
			name:                  "standard gap, manual distance",
			voltageKV:             13.8,
			gapMM:                 0,
			distanceMM:            610,
			wantGap:               152,
			wantDistance:          610,
			wantGapDefaulted:      true,
			wantDistanceDefaulted: false,
		},
		{
			name:                  "manual gap, standard distance",
			voltageKV:             13.8,
			gapMM:                 100,
			distanceMM:            0,
			wantGap:               100,
			wantDistance:          914,
			wantGapDefaulted:      false,
			wantDistanceDefaulted: true,
		},
		{
			name:                  "low voltage standard gap, manual distance",
			voltageKV:             0.48,
			gapMM:                 0,
			distanceMM:            300,
			wantGap:               25,
			wantDistance:          300,
			wantGapDefaulted:      true,
			wantDistanceDefaulted: false,
		},
		{
			name:                  "low voltage manual gap, standard distance",
			voltageKV:             0.48,
			gapMM:                 32,
			distanceMM:            0,
			wantGap:               32,
			wantDistance:          457.2,
			wantGapDefaulted:      false,
			wantDistanceDefaulted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ComputeArcFlash(ArcFlashInputs{
				VoltageKV:            tt.voltageKV,
				BoltedFaultCurrentKA: 17,
				ArcDurationS:         0.2,
				GapMM:                tt.gapMM,
				WorkingDistanceMM:    tt.distanceMM,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantGap, result.EffectiveGapMM)
			assert.Equal(t, tt.wantDistance, result.EffectiveDistanceMM)
			assert.Equal(t, tt.wantGapDefaulted, result.GapDefaulted)
			assert.Equal(t, tt.wantDistanceDefaulted, result.DistanceDefaulted)
			assert.InDelta(t, math.Log10(tt.wantGap), result.Log10Gap, 1e-12)
		})
	}
}

func TestComputeArcFlash_DefaultGeometryByClass(t *testing.T) {
	tests := []struct {
		voltageKV    float64
		wantGap      float64
		wantDistance float64
	}{
		{voltageKV: 0.208, wantGap: 25.0, wantDistance: 457.2},
		{voltageKV: 0.6, wantGap: 25.0, wantDistance: 457.2},
		{voltageKV: 0.999, wantGap: 25.0, wantDistance: 457.2},
		{voltageKV: 1.0, wantGap: 152.0, wantDistance: 914.0},
		{voltageKV: 4.16, wantGap: 152.0, wantDistance: 914.0},
		{voltageKV: 34.5, wantGap: 152.0, wantDistance: 914.0},
	}

	for _, tt := range tests {
		result, err := ComputeArcFlash(ArcFlashInputs{
			VoltageKV:            tt.voltageKV,
			BoltedFaultCurrentKA: 10,
			ArcDurationS:         0.1,
		})
		require.NoError(t, err)
		assert.Equal(t, tt.wantGap, result.EffectiveGapMM, "gap at %v kV", tt.voltageKV)
		assert.Equal(t, tt.wantDistance, result.EffectiveDistanceMM, "distance at %v kV", tt.voltageKV)
	}
}

func TestComputeArcFlash_VoltageFactorBands(t *testing.T) {
	tests := []struct {
		voltageKV float64
		want      float64
	}{
		{voltageKV: 0.12, want: 0.85},
		{voltageKV: 0.5999, want: 0.85},
		{voltageKV: 0.6, want: 1.0},
		{voltageKV: 0.9999, want: 1.0},
		{voltageKV: 1.0, want: 1.15},
		{voltageKV: 13.8, want: 1.15},
	}

	for _, tt := range tests {
		result, err := ComputeArcFlash(ArcFlashInputs{
			VoltageKV:            tt.voltageKV,
			BoltedFaultCurrentKA: 10,
			ArcDurationS:         0.1,
		})
		require.NoError(t, err)
		assert.Equal(t, tt.want, result.VoltageFactor, "factor at %v kV", tt.voltageKV)
	}
}

func TestComputeArcFlash_InvalidInputs(t *testing.T) {
	valid := ArcFlashInputs{VoltageKV: 13.8, BoltedFaultCurrentKA: 17, ArcDurationS: 0.5}

	tests := []struct {
		name      string
		mutate    func(*ArcFlashInputs)
		wantField string
	}{
		{name: "zero voltage", mutate: func(in *ArcFlashInputs) { in.VoltageKV = 0 }, wantField: "voltage_kv"},
		{name: "negative voltage", mutate: func(in *ArcFlashInputs) { in.VoltageKV = -0.48 }, wantField: "voltage_kv"},
		{name: "zero current", mutate: func(in *ArcFlashInputs) { in.BoltedFaultCurrentKA = 0 }, wantField: "bolted_fault_current_ka"},
		{name: "zero duration", mutate: func(in *ArcFlashInputs) { in.ArcDurationS = 0 }, wantField: "arc_duration_s"},
		{name: "NaN duration", mutate: func(in *ArcFlashInputs) { in.ArcDurationS = math.NaN() }, wantField: "arc_duration_s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			_, err := ComputeArcFlash(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))

			var invalid *InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, KindArcFlash, invalid.Kind)
			assert.Equal(t, tt.wantField, invalid.Field)
			assert.Equal(t, ReasonNotPositive, invalid.Reason)
		})
	}
}

func TestComputeArcFlash_OverflowIsRejected(t *testing.T) {
	tests := []struct {
		name      string
		in        ArcFlashInputs
		wantField string
	}{
		{
			name:      "huge gap",
			in:        ArcFlashInputs{VoltageKV: 13.8, BoltedFaultCurrentKA: 17, ArcDurationS: 0.5, GapMM: 1e6},
			wantField: "gap_mm",
		},
		{
			name:      "huge gap with vanishing distance factor",
			in:        ArcFlashInputs{VoltageKV: 13.8, BoltedFaultCurrentKA: 17, ArcDurationS: 0.5, GapMM: 1e6, WorkingDistanceMM: 1e200},
			wantField: "working_distance_mm",
		},
		{
			name:      "huge fault current",
			in:        ArcFlashInputs{VoltageKV: 13.8, BoltedFaultCurrentKA: 1e300, ArcDurationS: 0.5},
			wantField: "bolted_fault_current_ka",
		},
		{
			name:      "huge duration",
			in:        ArcFlashInputs{VoltageKV: 13.8, BoltedFaultCurrentKA: 17, ArcDurationS: math.MaxFloat64},
			wantField: "arc_duration_s",
		},
		{
			name:      "tiny working distance",
			in:        ArcFlashInputs{VoltageKV: 13.8, BoltedFaultCurrentKA: 17, ArcDurationS: 0.5, WorkingDistanceMM: 1e-200},
			wantField: "working_distance_mm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ComputeArcFlash(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Zero(t, result.IncidentEnergyCalPerCm2)

			var invalid *InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, ReasonOutOfRange, invalid.Reason)
			assert.Equal(t, tt.wantField, invalid.Field)
			assert.Contains(t, err.Error(), "out of range")
		})
	}
}

func TestLookups_RejectUnknownRows(t *testing.T) {
	_, ok := CoefficientsFor(VoltageClass(7))
	assert.False(t, ok)
	_, ok = CoefficientsFor(VoltageClass(-1))
	assert.False(t, ok)
	_, ok = StandardGeometryFor(VoltageClass(2))
	assert.False(t, ok)
	_, ok = VoltageFactor(VoltageBand(3))
	assert.False(t, ok)

	factor, ok := VoltageFactor(Band600VTo1kV)
	require.True(t, ok)
	assert.Equal(t, 1.0, factor)
	geometry, ok := StandardGeometryFor(MediumVoltage)
	require.True(t, ok)
	assert.Equal(t, StandardGeometry{GapMM: 152, DistanceMM: 914}, geometry)
}

func TestComputeArcFlash_ZeroGeometryIsNotAnError(t *testing.T) {
	_, err := ComputeArcFlash(ArcFlashInputs{
		VoltageKV:            0.48,
		BoltedFaultCurrentKA: 25,
		ArcDurationS:         0.05,
		GapMM:                0,
		WorkingDistanceMM:    0,
	})
	assert.NoError(t, err)
}

func TestComputeArcFlash_Idempotent(t *testing.T) {
	in := ArcFlashInputs{VoltageKV: 4.16, BoltedFaultCurrentKA: 12.3, ArcDurationS: 0.083, GapMM: 104, WorkingDistanceMM: 910}

	first, err := ComputeArcFlash(in)
	require.NoError(t, err)
	second, err := ComputeArcFlash(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, math.Float64bits(first.IncidentEnergyCalPerCm2), math.Float64bits(second.IncidentEnergyCalPerCm2))
}

func TestComputeArcFlash_CategoryMatchesEnergy(t *testing.T) {
	for _, current := range []float64{0.5, 2, 8, 17, 40, 80} {
		for _, duration := range []float64{0.01, 0.1, 0.5, 2} {
			result, err := ComputeArcFlash(ArcFlashInputs{VoltageKV: 13.8, BoltedFaultCurrentKA: current, ArcDurationS: duration})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, result.IncidentEnergyCalPerCm2, 0.0)
			assert.Equal(t, ClassifyIncidentEnergy(result.IncidentEnergyCalPerCm2), result.Category)
		}
	}
}

func TestCoefficientTable_HasRowPerClass(t *testing.T) {
	for _, class := range []VoltageClass{LowVoltage, MediumVoltage} {
		coef, ok := CoefficientsFor(class)
		require.True(t, ok)
		assert.Equal(t, -0.555, coef.KBase, class.String())
		assert.Equal(t, 1.081, coef.KCurrent, class.String())
		assert.Equal(t, 0.0011, coef.KGap, class.String())
		assert.Equal(t, 2.0, coef.DistanceExponent, class.String())
	}
}

func TestClassifyVoltage(t *testing.T) {
	assert.Equal(t, LowVoltage, ClassifyVoltage(0.999))
	assert.Equal(t, MediumVoltage, ClassifyVoltage(1.0))
	assert.Equal(t, "low_voltage", LowVoltage.String())
	assert.Equal(t, "medium_voltage", MediumVoltage.String())
}
