package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

// restoreGlobals undoes the global provider and propagator InitTracing sets.
func restoreGlobals(t *testing.T) {
	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
}

func TestInitTracing_DisabledInstallsLocalProvider(t *testing.T) {
	restoreGlobals(t)

	tp, err := InitTracing(context.Background(), Config{SampleRate: 1})
	require.NoError(t, err)
	assert.Same(t, tp, otel.GetTracerProvider())
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, Shutdown(context.Background(), tp))
}

func TestInitTracing_RejectsBadSampleRate(t *testing.T) {
	_, err := InitTracing(context.Background(), Config{Endpoint: "localhost:4317", SampleRate: 1.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample rate")
}

func TestInitTracing_ExporterConnectsLazily(t *testing.T) {
	restoreGlobals(t)

	tp, err := InitTracing(context.Background(), Config{Endpoint: "127.0.0.1:1", Insecure: true, SampleRate: 1, Version: "test"})
	require.NoError(t, err)
	require.NoError(t, Shutdown(context.Background(), tp))
}

func TestShutdown_NilProvider(t *testing.T) {
	assert.NoError(t, Shutdown(context.Background(), nil))
}
