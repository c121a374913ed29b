package metrics

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("customer_email", "x@example.com"),
		attribute.String("charge_model", "VOLUME"),
		attribute.String("selector", "list"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "charge_model" && attrs[1].Key != "charge_model" {
		t.Fatalf("expected charge_model to be retained")
	}
	if attrs[0].Key != "selector" && attrs[1].Key != "selector" {
		t.Fatalf("expected selector to be retained")
	}
}
