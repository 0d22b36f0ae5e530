package logging

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core)), logs
}

func TestLogger_WritesKeyValueFields(t *testing.T) {
	logger, logs := newObservedLogger(LevelDebug)

	logger.With("component", "statsbomb").Warn("provider request failed", "match_id", int64(3788741), "error", errors.New("boom"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got=%d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["component"] != "statsbomb" {
		t.Fatalf("unexpected component field: %v", fields["component"])
	}
	if fields["match_id"] != int64(3788741) {
		t.Fatalf("unexpected match_id field: %v", fields["match_id"])
	}
	if fields["error"] != "boom" {
		t.Fatalf("unexpected error field: %v", fields["error"])
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("unexpected level: %s", entries[0].Level)
	}
}

func TestLogger_ContextAddsTraceFields(t *testing.T) {
	logger, logs := newObservedLogger(LevelDebug)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "narrative generated", "style", "formal")

	fields := logs.All()[0].ContextMap()
	if fields["trace_id"] != traceID.String() {
		t.Fatalf("unexpected trace_id: %v", fields["trace_id"])
	}
	if fields["span_id"] != spanID.String() {
		t.Fatalf("unexpected span_id: %v", fields["span_id"])
	}
}

func TestLogger_RespectsLevel(t *testing.T) {
	logger, logs := newObservedLogger(LevelWarn)

	logger.Debug("ignored")
	logger.Info("ignored")
	logger.Error("kept")

	if logs.Len() != 1 {
		t.Fatalf("expected only the error entry, got=%d", logs.Len())
	}
}

func TestLogger_DanglingKeyAndNilReceiver(t *testing.T) {
	logger, logs := newObservedLogger(LevelDebug)
	logger.Info("odd args", "only_key")

	fields := logs.All()[0].ContextMap()
	if _, ok := fields["only_key"]; !ok {
		t.Fatalf("expected dangling key to be kept, got=%v", fields)
	}

	var nilLogger *Logger
	nilLogger.Info("must not panic")
	if nilLogger.With("k", "v") == nil {
		t.Fatalf("expected nop logger from nil receiver")
	}
}
