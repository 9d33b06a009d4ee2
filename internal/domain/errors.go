package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput matches every *InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// Reasons attached to an InvalidInputError.
const (
	ReasonNotPositive = "must be greater than zero"
	ReasonNegative    = "must not be negative"
	ReasonRequired    = "is required"
	ReasonUnsupported = "is not supported"
	ReasonOutOfRange  = "drives the result out of range"
)

// InvalidInputError reports the field that violated its constraint.
type InvalidInputError struct {
	Kind   Kind
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidInputError) Error() string {
	prefix := "invalid input"
	if e.Kind != "" {
		prefix = fmt.Sprintf("invalid %s input", e.Kind)
	}
	switch e.Reason {
	case ReasonNotPositive, ReasonNegative, ReasonOutOfRange:
		return fmt.Sprintf("%s: %s %s (got %g)", prefix, e.Field, e.Reason, e.Value)
	default:
		return fmt.Sprintf("%s: %s %s", prefix, e.Field, e.Reason)
	}
}

// Is lets callers test with errors.Is(err, ErrInvalidInput).
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func requirePositive(kind Kind, field string, v float64) error {
	// Written as !(v > 0) so NaN is rejected too.
	if !(v > 0) {
		return &InvalidInputError{Kind: kind, Field: field, Value: v, Reason: ReasonNotPositive}
	}
	return nil
}

// contribution is one input's share of a result on a log10 scale.
type contribution struct {
	field string
	value float64
	log10 float64
}

// requireFinite rejects a result that overflowed. The input with the largest
// log10 contribution is reported as the cause.
func requireFinite(kind Kind, result float64, terms ...contribution) error {
	if !math.IsInf(result, 0) && !math.IsNaN(result) {
		return nil
	}
	blamed := terms[0]
	for _, t := range terms[1:] {
		if math.Abs(t.log10) > math.Abs(blamed.log10) {
			blamed = t
		}
	}
	return &InvalidInputError{Kind: kind, Field: blamed.field, Value: blamed.value, Reason: ReasonOutOfRange}
}
