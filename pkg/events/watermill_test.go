package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/lvoinea/stuffkeeper/pkg/config"
	"github.com/lvoinea/stuffkeeper/pkg/logger"
)

func quietLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

func TestDeliver_FirstAttemptSucceeds(t *testing.T) {
	calls := 0
	handler := func(_ context.Context, _ *message.Message) error {
		calls++
		return nil
	}
	msg := message.NewMessage("id", nil)
	if err := deliver(context.Background(), msg, handler, maxAttempts, time.Millisecond, quietLogger()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDeliver_RecoversOnLaterAttempt(t *testing.T) {
	calls := 0
	handler := func(_ context.Context, _ *message.Message) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}
	msg := message.NewMessage("id", nil)
	if err := deliver(context.Background(), msg, handler, maxAttempts, time.Millisecond, quietLogger()); err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDeliver_GivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	handler := func(_ context.Context, _ *message.Message) error {
		calls++
		return errors.New("permanent")
	}
	msg := message.NewMessage("id", nil)
	err := deliver(context.Background(), msg, handler, maxAttempts, time.Millisecond, quietLogger())
	if err == nil {
		t.Fatal("expected an error once attempts run out")
	}
	if calls != maxAttempts {
		t.Errorf("expected %d calls, got %d", maxAttempts, calls)
	}
}

func TestDeliver_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	handler := func(_ context.Context, _ *message.Message) error {
		calls++
		return errors.New("boom")
	}
	msg := message.NewMessage("id", nil)
	if err := deliver(ctx, msg, handler, maxAttempts, time.Second, quietLogger()); err == nil {
		t.Fatal("expected the context error")
	}
	// One call, then the backoff wait observes the cancellation.
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestStartForwarder_RequiresOutboxBus(t *testing.T) {
	bus := &EventBus{outbox: false}
	if err := bus.StartForwarder(context.Background()); err == nil {
		t.Fatal("expected an error on a bus without an outbox")
	}
}

func TestTraceContext_RoundTripsThroughMetadata(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	ctx, span := otel.Tracer("test").Start(context.Background(), "publish-span")
	defer span.End()
	wantTraceID := span.SpanContext().TraceID()

	// Publish side: trace context into metadata.
	msg := message.NewMessage("id", nil)
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.Metadata.Set(k, v)
	}

	// Subscribe side: metadata back into a context.
	extracted := propagation.MapCarrier{}
	for k, v := range msg.Metadata {
		extracted[k] = v
	}
	msgCtx := otel.GetTextMapPropagator().Extract(context.Background(), extracted)

	got := trace.SpanFromContext(msgCtx)
	if !got.SpanContext().IsValid() {
		t.Fatal("extracted span context is not valid")
	}
	if got.SpanContext().TraceID() != wantTraceID {
		t.Errorf("trace ID mismatch: want %s, got %s", wantTraceID, got.SpanContext().TraceID())
	}
}
