// Package domain models arc-flash incident energy and short-circuit current
// estimation at a single point of a power distribution network.
//
// # Arc Flash Energy
//
// [ComputeArcFlash] turns voltage, bolted fault current, arc duration, electrode
// gap, and working distance into an incident energy in cal/cm² using a single
// log-linear regression:
//
//	log10(En) = k_base + k_i·log10(Ibf) + k_gap·gap
//	E         = En · (t / 0.2) · (610 / D)^x · Fv
//
// Coefficients are selected per [VoltageClass] from a table. The low-voltage
// and medium-voltage rows currently hold identical values; the selection point
// is kept so a distinct low-voltage set is a data change.
//
// Voltage factor Fv is a three-band lookup, not a low/medium split:
//
//	V < 0.6 kV         → 0.85
//	0.6 kV ≤ V < 1 kV  → 1.00
//	V ≥ 1 kV           → 1.15
//
// Gap and working distance of zero are sentinels for the standard defaults:
//
//	V ≥ 1 kV: gap 152 mm, distance 914 mm
//	V < 1 kV: gap 25 mm,  distance 457.2 mm
//
// # Hazard Categories
//
// Incident energy maps to a category by ordered thresholds (first match wins):
//
//	E < 1.2  Minimal Risk
//	E < 4    Category 1/2
//	E < 8    Category 2
//	E < 40   Category 3/4
//	E ≥ 40   DANGER
//
// # Short-Circuit Estimate
//
// [ComputeShortCircuit] approximates the available fault current behind a
// single transformer:
//
//	In   = S·1000 / (√3·V)
//	Icc  = In / (Z% / 100)
//	Imot = 4·In (when motors are included)
//
// The two calculators are independent. Feeding the short-circuit total into the
// arc-flash current is the caller's job (see the pipeline package).
//
// Both calculators are pure: no I/O, no package state, safe for concurrent use.
package domain
