package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// ParseRequest deserializes a RawEvent's value into a CalculationRequest using
// DecodeStrict. A missing ID falls back to the message key.
func ParseRequest(raw RawEvent) (CalculationRequest, error) {
	var req CalculationRequest
	if err := DecodeStrict(bytes.NewReader(raw.Value), &req); err != nil {
		return CalculationRequest{}, fmt.Errorf("parse calculation request: %w", err)
	}
	if req.ID == "" {
		req.ID = string(raw.Key)
	}
	return req, nil
}

// DecodeStrict decodes exactly one JSON value from r into dst. Unknown fields
// and anything after the value are errors.
func DecodeStrict(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return err
		}
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

// NewErrorResult builds an error envelope from err. Field is filled in when
// err wraps an *InvalidInputError.
func NewErrorResult(id string, kind Kind, err error, at time.Time) CalculationResult {
	re := &ResultError{Message: err.Error()}
	var invalid *InvalidInputError
	if errors.As(err, &invalid) {
		re.Field = invalid.Field
	}
	return CalculationResult{
		ID:           id,
		Kind:         kind,
		Status:       StatusError,
		Error:        re,
		CalculatedAt: at,
	}
}

// SerializeResult converts a CalculationResult into an OutputEvent keyed by
// request ID.
func SerializeResult(result CalculationResult) (OutputEvent, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize calculation result: %w", err)
	}
	return OutputEvent{
		Key:   []byte(result.ID),
		Value: data,
		Headers: map[string]string{
			"kind":          string(result.Kind),
			"status":        result.Status,
			"calculated_at": result.CalculatedAt.UTC().Format(time.RFC3339),
		},
	}, nil
}
