package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	petmemory "github.com/Apurer/go-gin-pet-api/internal/domains/pets/adapters/memory"
	petsapp "github.com/Apurer/go-gin-pet-api/internal/domains/pets/application"
	pettypes "github.com/Apurer/go-gin-pet-api/internal/domains/pets/application/types"
	"github.com/Apurer/go-gin-pet-api/internal/domains/pets/ports"
)

type harness struct {
	svc    ports.Service
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	logs   *bytes.Buffer
}

func newHarness() harness {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	logs := &bytes.Buffer{}

	svc := New(
		petsapp.NewService(petmemory.NewRepository()),
		WithLogger(slog.New(slog.NewJSONHandler(logs, nil))),
		WithTracer(tp.Tracer("test")),
		WithMeter(mp.Meter("test")),
	)
	return harness{svc: svc, spans: spans, reader: reader, logs: logs}
}

func addInput(name string) pettypes.AddPetInput {
	petType, color, price := "dog", "white", int64(1000)
	return pettypes.AddPetInput{PetMutationInput: pettypes.PetMutationInput{Name: &name, Type: &petType, Color: &color, Price: &price}}
}

func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestService_AddPetRecordsSpanAndMetric(t *testing.T) {
	h := newHarness()

	_, err := h.svc.AddPet(context.Background(), addInput("Baymax"))
	require.NoError(t, err)

	ended := h.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "Service.AddPet", ended[0].Name())
	assert.Equal(t, int64(1), counterValue(t, h.reader, "pets.service.created"))
	assert.Contains(t, h.logs.String(), "pet added")
}

func TestService_ErrorsMarkSpan(t *testing.T) {
	h := newHarness()
	_, err := h.svc.AddPet(context.Background(), addInput("Baymax"))
	require.NoError(t, err)

	_, err = h.svc.AddPet(context.Background(), addInput("Baymax"))
	require.ErrorIs(t, err, petsapp.ErrConflict)

	ended := h.spans.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Equal(t, int64(1), counterValue(t, h.reader, "pets.service.created"))
	assert.Contains(t, h.logs.String(), "failed to add pet")
}

func TestService_FindPetsAndDelete(t *testing.T) {
	h := newHarness()
	_, err := h.svc.AddPet(context.Background(), addInput("Baymax"))
	require.NoError(t, err)

	dog := "dog"
	found, err := h.svc.FindPets(context.Background(), pettypes.FindPetsInput{Type: &dog})
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, h.svc.Delete(context.Background(), pettypes.PetIdentifier{Name: "Baymax"}))
	require.NoError(t, h.svc.Clear(context.Background()))
	assert.Equal(t, int64(1), counterValue(t, h.reader, "pets.service.deleted"))
	assert.Equal(t, int64(1), counterValue(t, h.reader, "pets.service.cleared"))
}

func TestNew_DefaultsWithoutOptions(t *testing.T) {
	svc := New(petsapp.NewService(petmemory.NewRepository()), nil, WithLogger(nil), WithTracer(nil))

	_, err := svc.AddPet(context.Background(), addInput("Baymax"))
	require.NoError(t, err)
}
