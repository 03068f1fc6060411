package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/jhoicas/inventario-produccion/internal/infrastructure/observability"
	"github.com/jhoicas/inventario-produccion/pkg/config"
)

func TestSetupTracing_SinEndpoint(t *testing.T) {
	shutdown, err := observability.SetupTracing(context.Background(), "inventario-test", config.TracingConfig{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
}

func TestSetupTracing_ConEndpoint(t *testing.T) {
	shutdown, err := observability.SetupTracing(context.Background(), "inventario-test", config.TracingConfig{
		OTLPEndpoint: "localhost:4318", Insecure: true, SampleRatio: 1,
	})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	// Sin colector el export falla; solo interesa que el cierre no bloquee.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
