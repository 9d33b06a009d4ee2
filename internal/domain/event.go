package domain

import (
	"context"
	"time"
)

// Kind identifies which calculation a request asks for.
type Kind string

const (
	KindArcFlash     Kind = "arc_flash"
	KindShortCircuit Kind = "short_circuit"
	// KindStudy runs the short-circuit estimate and feeds its total into the
	// arc-flash calculation.
	KindStudy Kind = "study"
)

// Valid reports whether k is a supported calculation kind.
func (k Kind) Valid() bool {
	switch k {
	case KindArcFlash, KindShortCircuit, KindStudy:
		return true
	default:
		return false
	}
}

// Result statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// RawEvent represents an unprocessed message from the request topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// CalculationRequest is the JSON envelope callers submit. Only the sections
// required by Kind are read.
type CalculationRequest struct {
	ID           string              `json:"id,omitempty"`
	Kind         Kind                `json:"kind"`
	ArcFlash     *ArcFlashInputs     `json:"arc_flash,omitempty"`
	ShortCircuit *ShortCircuitInputs `json:"short_circuit,omitempty"`
}

// ResultError describes why a request produced no result.
type ResultError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// CalculationResult is the envelope returned for every request. Status "error"
// carries Error and no results.
type CalculationResult struct {
	ID           string              `json:"id"`
	Kind         Kind                `json:"kind"`
	Status       string              `json:"status"`
	ArcFlash     *ArcFlashResult     `json:"arc_flash,omitempty"`
	ShortCircuit *ShortCircuitResult `json:"short_circuit,omitempty"`
	Error        *ResultError        `json:"error,omitempty"`
	CalculatedAt time.Time           `json:"calculated_at"`
}

// OutputEvent is the serialized form destined for the result topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
