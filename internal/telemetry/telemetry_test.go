package telemetry

import (
	"context"
	"testing"
)

func TestSetupDisabled(t *testing.T) {
	ctx := context.Background()

	shutdown, err := Setup(ctx, false)
	if err != nil {
		t.Fatalf("Setup(disabled) error: %v", err)
	}

	_, span := Tracer("test").Start(ctx, "noop.span")
	if span.SpanContext().IsValid() {
		t.Error("disabled telemetry should produce invalid span contexts")
	}
	span.End()

	if err := shutdown(ctx); err != nil {
		t.Errorf("shutdown error: %v", err)
	}
}
