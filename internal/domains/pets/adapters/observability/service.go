package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	pettypes "github.com/Apurer/go-gin-pet-api/internal/domains/pets/application/types"
	"github.com/Apurer/go-gin-pet-api/internal/domains/pets/ports"
)

const tracerName = "github.com/Apurer/go-gin-pet-api/internal/domains/pets/adapters/observability/service"

// Service decorates a pets application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// AddPet stores a new pet with instrumentation.
func (s *Service) AddPet(ctx context.Context, input pettypes.AddPetInput) (*pettypes.PetProjection, error) {
	name := derefString(input.Name)
	ctx, span := s.startSpan(ctx, "Service.AddPet", attribute.String("pet.name", name))
	defer span.End()

	s.logInfo(ctx, "adding pet", slog.String("pet.name", name))
	result, err := s.inner.AddPet(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add pet", slog.String("pet.name", name))
	}
	if result != nil && result.Entity != nil {
		s.metrics.recordCreated(ctx, result.Entity.Type)
		s.logInfo(ctx, "pet added", slog.String("pet.name", result.Entity.Name), slog.String("pet.type", result.Entity.Type))
	}
	return result, nil
}

// UpdatePet replaces an existing pet with new state.
func (s *Service) UpdatePet(ctx context.Context, input pettypes.UpdatePetInput) (*pettypes.PetProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdatePet", attribute.String("pet.name", input.PetIdentifier.Name))
	defer span.End()

	s.logInfo(ctx, "updating pet", slog.String("pet.name", input.PetIdentifier.Name))
	result, err := s.inner.UpdatePet(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update pet", slog.String("pet.name", input.PetIdentifier.Name))
	}
	if result != nil && result.Entity != nil {
		s.metrics.recordUpdated(ctx, result.Entity.Type)
		s.logInfo(ctx, "pet updated", slog.String("pet.name", result.Entity.Name), slog.Int64("pet.price", result.Entity.Price))
	}
	return result, nil
}

// GetByName loads a single pet.
func (s *Service) GetByName(ctx context.Context, input pettypes.PetIdentifier) (*pettypes.PetProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.GetByName", attribute.String("pet.name", input.Name))
	defer span.End()

	s.logInfo(ctx, "loading pet", slog.String("pet.name", input.Name))
	result, err := s.inner.GetByName(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load pet", slog.String("pet.name", input.Name))
	}
	return result, nil
}

// FindPets lists pets, optionally filtered.
func (s *Service) FindPets(ctx context.Context, input pettypes.FindPetsInput) ([]*pettypes.PetProjection, error) {
	attrs, logAttrs := filterAttributes(input)
	ctx, span := s.startSpan(ctx, "Service.FindPets", attrs...)
	defer span.End()

	s.logInfo(ctx, "finding pets", logAttrs...)
	result, err := s.inner.FindPets(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to find pets", logAttrs...)
	}
	span.SetAttributes(attribute.Int("pet.result.count", len(result)))
	s.logInfo(ctx, "found pets", slog.Int("count", len(result)))
	return result, nil
}

// Delete removes a pet.
func (s *Service) Delete(ctx context.Context, input pettypes.PetIdentifier) error {
	ctx, span := s.startSpan(ctx, "Service.Delete", attribute.String("pet.name", input.Name))
	defer span.End()

	s.logInfo(ctx, "deleting pet", slog.String("pet.name", input.Name))
	if err := s.inner.Delete(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to delete pet", slog.String("pet.name", input.Name))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "pet deleted", slog.String("pet.name", input.Name))
	return nil
}

// Clear empties the catalog.
func (s *Service) Clear(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "Service.Clear")
	defer span.End()

	s.logInfo(ctx, "clearing pets")
	if err := s.inner.Clear(ctx); err != nil {
		return s.handleError(ctx, span, err, "failed to clear pets")
	}
	s.metrics.recordCleared(ctx)
	return nil
}

func filterAttributes(input pettypes.FindPetsInput) ([]attribute.KeyValue, []slog.Attr) {
	var (
		attrs    []attribute.KeyValue
		logAttrs []slog.Attr
	)
	if input.Type != nil {
		attrs = append(attrs, attribute.String("pet.filter.type", *input.Type))
		logAttrs = append(logAttrs, slog.String("type", *input.Type))
	}
	if input.Color != nil {
		attrs = append(attrs, attribute.String("pet.filter.color", *input.Color))
		logAttrs = append(logAttrs, slog.String("color", *input.Color))
	}
	if input.PriceFrom != nil {
		attrs = append(attrs, attribute.Int64("pet.filter.price_from", *input.PriceFrom))
		logAttrs = append(logAttrs, slog.Int64("priceFrom", *input.PriceFrom))
	}
	if input.PriceTo != nil {
		attrs = append(attrs, attribute.Int64("pet.filter.price_to", *input.PriceTo))
		logAttrs = append(logAttrs, slog.Int64("priceTo", *input.PriceTo))
	}
	return attrs, logAttrs
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

type serviceMetrics struct {
	petsCreated metric.Int64Counter
	petsUpdated metric.Int64Counter
	petsDeleted metric.Int64Counter
	petsCleared metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	petsCreated, _ := m.Int64Counter("pets.service.created", metric.WithDescription("Number of pets created"))
	petsUpdated, _ := m.Int64Counter("pets.service.updated", metric.WithDescription("Number of pets updated"))
	petsDeleted, _ := m.Int64Counter("pets.service.deleted", metric.WithDescription("Number of pet deletions"))
	petsCleared, _ := m.Int64Counter("pets.service.cleared", metric.WithDescription("Number of catalog resets"))
	return serviceMetrics{
		petsCreated: petsCreated,
		petsUpdated: petsUpdated,
		petsDeleted: petsDeleted,
		petsCleared: petsCleared,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context, petType string) {
	addCounter(ctx, m.petsCreated, 1, attribute.String("pet.type", petType))
}

func (m serviceMetrics) recordUpdated(ctx context.Context, petType string) {
	addCounter(ctx, m.petsUpdated, 1, attribute.String("pet.type", petType))
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.petsDeleted, 1)
}

func (m serviceMetrics) recordCleared(ctx context.Context) {
	addCounter(ctx, m.petsCleared, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
