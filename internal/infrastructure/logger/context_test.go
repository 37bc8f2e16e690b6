package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithContext(context.Background(), logger)

	assert.Equal(t, logger, FromContext(ctx))
}

func TestFromContext_Missing(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)
}

func TestWithRequestID(t *testing.T) {
	ctx, enriched := WithRequestID(context.Background(), zap.NewNop(), "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Equal(t, enriched, FromContext(ctx))
}

func TestWithOnboardingID(t *testing.T) {
	ctx, enriched := WithOnboardingID(context.Background(), zap.NewNop(), "ob-456")

	assert.Equal(t, "ob-456", GetOnboardingID(ctx))
	assert.Equal(t, enriched, FromContext(ctx))
}

func TestGetOnboardingID_NotFound(t *testing.T) {
	assert.Empty(t, GetOnboardingID(context.Background()))
}

func TestContextValuesChain(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	ctx, logger = WithRequestID(ctx, logger, "req-1")
	ctx, _ = WithOnboardingID(ctx, logger, "ob-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "ob-1", GetOnboardingID(ctx))
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetSpanID(context.Background()))
}

func TestWithTraceContext_NoSpan(t *testing.T) {
	otel.SetTracerProvider(noop.NewTracerProvider())
	logger := zap.NewNop()

	assert.Equal(t, logger, WithTraceContext(context.Background(), logger))
}

func TestContextLogger_InjectsContextFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx := WithContext(context.Background(), logger)
	ctx = context.WithValue(ctx, RequestIDKey, "req-aaa")
	ctx = context.WithValue(ctx, OnboardingIDKey, "ob-bbb")

	L(ctx).Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-aaa", fields["request_id"])
	assert.Equal(t, "ob-bbb", fields["onboarding_id"])
}

func TestContextLogger_OmitsEmptyFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := WithContext(context.Background(), zap.New(core))

	L(ctx).Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	_, hasOnboarding := entries[0].ContextMap()["onboarding_id"]
	assert.False(t, hasOnboarding)
}

func TestContextLogger_With(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := WithContext(context.Background(), zap.New(core))

	L(ctx).With(zap.String("step", "review")).Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "review", entries[0].ContextMap()["step"])
}

func TestWithLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	WithLogger(context.Background(), logger).Warn("careful")

	require.Len(t, logs.All(), 1)
	assert.Equal(t, "careful", logs.All()[0].Message)
}
