package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"

	"github.com/couchcryptid/arc-flash-service/internal/domain"
	"github.com/couchcryptid/arc-flash-service/internal/observability"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Processor runs calculation requests against the domain calculators.
// Study requests chain the short-circuit estimate into the arc-flash
// calculation here; the calculators themselves never call each other.
// It implements Transformer.
type Processor struct {
	validate *validator.Validate
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewProcessor creates a Processor. The clock stamps CalculatedAt on results.
func NewProcessor(clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Processor {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	return &Processor{
		validate: v,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
	}
}

// Transform parses a raw request message, runs it, and serializes the result
// envelope. Malformed or invalid requests still produce an error envelope so
// the caller always receives an answer keyed by its request ID.
func (p *Processor) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, err := domain.ParseRequest(raw)
	if err != nil {
		p.logger.Warn("unparseable calculation request",
			"error", err,
			"topic", raw.Topic,
			"partition", raw.Partition,
			"offset", raw.Offset,
		)
		p.metrics.Calculations.WithLabelValues(kindLabel(""), domain.StatusError).Inc()

		id := string(raw.Key)
		if id == "" {
			id = uuid.NewString()
		}
		return domain.SerializeResult(domain.NewErrorResult(id, "", err, p.clock.Now().UTC()))
	}

	return p.serialize(ctx, p.Process(ctx, req))
}

// serialize falls back to an error envelope when the result itself cannot be
// encoded, so the request is still answered.
func (p *Processor) serialize(ctx context.Context, result domain.CalculationResult) (domain.OutputEvent, error) {
	out, err := domain.SerializeResult(result)
	if err == nil {
		return out, nil
	}
	p.logger.ErrorContext(ctx, "result not serializable", "id", result.ID, "error", err)
	p.metrics.Calculations.WithLabelValues(kindLabel(result.Kind), domain.StatusError).Inc()
	return domain.SerializeResult(domain.NewErrorResult(result.ID, result.Kind, err, result.CalculatedAt))
}

// Process runs a single request and always returns an envelope; failures are
// reported with Status "error".
func (p *Processor) Process(ctx context.Context, req domain.CalculationRequest) domain.CalculationResult {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := p.clock.Now().UTC()

	result, err := p.calculate(req)
	if err != nil {
		p.logger.DebugContext(ctx, "calculation rejected", "id", req.ID, "kind", req.Kind, "error", err)
		p.metrics.Calculations.WithLabelValues(kindLabel(req.Kind), domain.StatusError).Inc()
		return domain.NewErrorResult(req.ID, req.Kind, err, now)
	}

	result.ID = req.ID
	result.Kind = req.Kind
	result.Status = domain.StatusOK
	result.CalculatedAt = now

	p.observe(result)
	if result.ArcFlash != nil {
		p.logger.DebugContext(ctx, "arc flash calculated",
			"id", req.ID,
			"incident_energy", result.ArcFlash.IncidentEnergyCalPerCm2,
			"category", result.ArcFlash.Category,
			"gap_defaulted", result.ArcFlash.GapDefaulted,
			"distance_defaulted", result.ArcFlash.DistanceDefaulted,
		)
	}
	return result
}

func (p *Processor) calculate(req domain.CalculationRequest) (domain.CalculationResult, error) {
	switch req.Kind {
	case domain.KindArcFlash:
		if req.ArcFlash == nil {
			return domain.CalculationResult{}, missingSection(req.Kind, "arc_flash")
		}
		af, err := p.arcFlash(*req.ArcFlash)
		if err != nil {
			return domain.CalculationResult{}, err
		}
		return domain.CalculationResult{ArcFlash: &af}, nil

	case domain.KindShortCircuit:
		if req.ShortCircuit == nil {
			return domain.CalculationResult{}, missingSection(req.Kind, "short_circuit")
		}
		sc, err := p.shortCircuit(*req.ShortCircuit)
		if err != nil {
			return domain.CalculationResult{}, err
		}
		return domain.CalculationResult{ShortCircuit: &sc}, nil

	case domain.KindStudy:
		if req.ShortCircuit == nil {
			return domain.CalculationResult{}, missingSection(req.Kind, "short_circuit")
		}
		if req.ArcFlash == nil {
			return domain.CalculationResult{}, missingSection(req.Kind, "arc_flash")
		}
		sc, err := p.shortCircuit(*req.ShortCircuit)
		if err != nil {
			return domain.CalculationResult{}, err
		}
		in := *req.ArcFlash
		in.BoltedFaultCurrentKA = sc.TotalFaultCurrentKA
		af, err := p.arcFlash(in)
		if err != nil {
			return domain.CalculationResult{}, err
		}
		return domain.CalculationResult{ArcFlash: &af, ShortCircuit: &sc}, nil

	default:
		return domain.CalculationResult{}, &domain.InvalidInputError{
			Kind:   req.Kind,
			Field:  "kind",
			Reason: domain.ReasonUnsupported,
		}
	}
}

func (p *Processor) arcFlash(in domain.ArcFlashInputs) (domain.ArcFlashResult, error) {
	if err := p.check(domain.KindArcFlash, in); err != nil {
		return domain.ArcFlashResult{}, err
	}
	return domain.ComputeArcFlash(in)
}

func (p *Processor) shortCircuit(in domain.ShortCircuitInputs) (domain.ShortCircuitResult, error) {
	if err := p.check(domain.KindShortCircuit, in); err != nil {
		return domain.ShortCircuitResult{}, err
	}
	return domain.ComputeShortCircuit(in)
}

// check runs struct-tag validation and converts the first failure into an
// *domain.InvalidInputError.
func (p *Processor) check(kind domain.Kind, in any) error {
	err := p.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	value, _ := fe.Value().(float64)
	reason := fe.Tag()
	switch fe.Tag() {
	case "gt":
		reason = domain.ReasonNotPositive
	case "gte":
		reason = domain.ReasonNegative
	}
	return &domain.InvalidInputError{Kind: kind, Field: fe.Field(), Value: value, Reason: reason}
}

func (p *Processor) observe(result domain.CalculationResult) {
	p.metrics.Calculations.WithLabelValues(kindLabel(result.Kind), domain.StatusOK).Inc()
	if result.ArcFlash != nil {
		p.metrics.IncidentEnergy.Observe(result.ArcFlash.IncidentEnergyCalPerCm2)
		p.metrics.HazardCategories.WithLabelValues(string(result.ArcFlash.Category)).Inc()
	}
	if result.ShortCircuit != nil {
		p.metrics.FaultCurrent.Observe(result.ShortCircuit.TotalFaultCurrentKA)
	}
}

func missingSection(kind domain.Kind, field string) error {
	return &domain.InvalidInputError{Kind: kind, Field: field, Reason: domain.ReasonRequired}
}

// kindLabel keeps the metric label set bounded.
func kindLabel(k domain.Kind) string {
	if !k.Valid() {
		return "unknown"
	}
	return string(k)
}

// jsonFieldName reports validation failures by their JSON names.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}
