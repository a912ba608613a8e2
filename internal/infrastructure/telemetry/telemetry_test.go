package telemetry

import (
	"context"
	"testing"

	"github.com/emlak/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, "ParentBased{root:AlwaysOnSampler"},
		{2, "ParentBased{root:AlwaysOnSampler"},
		{0, "ParentBased{root:AlwaysOffSampler"},
		{0.25, "ParentBased{root:TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		assert.Contains(t, Sampler(tt.ratio).Description(), tt.want)
	}
}

func TestSetup_AllDisabled(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{ServiceName: "emlak-test"}, zap.NewNop())
	require.NoError(t, err)

	assert.Nil(t, p.Tracer)
	assert.Nil(t, p.Meter)
	assert.Nil(t, p.Logs)
	assert.Nil(t, p.Profiler)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestProviders_WrapLoggerWithoutLogExport(t *testing.T) {
	logger := zap.NewNop()
	p := &Providers{}

	assert.Same(t, logger, p.WrapLogger(logger, zapcore.InfoLevel))
	assert.Same(t, logger, (*Providers)(nil).WrapLogger(logger, zapcore.InfoLevel))
}

func TestProviders_ShutdownFlushesTracer(t *testing.T) {
	p := &Providers{Tracer: sdktrace.NewTracerProvider()}

	require.NoError(t, p.Shutdown(context.Background()))
	_, span := p.Tracer.Tracer("test").Start(context.Background(), "after-shutdown")
	assert.False(t, span.IsRecording())
}

func TestLevelCore(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	logger := zap.New(&levelCore{Core: core, level: zapcore.WarnLevel})

	logger.Info("ignored")
	logger.With(zap.String("listing_no", "E-1")).Warn("kept")

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
	assert.Equal(t, "E-1", entries[0].ContextMap()["listing_no"])
}
