package console

import (
	"errors"
	"testing"
)

func TestPayloadValidatorValidate(t *testing.T) {
	v := NewPayloadValidator()
	def := ActionDefinition{
		Kind: "ticket.update_priority",
		PayloadSchema: map[string]any{
			"type":     "object",
			"required": []any{"priority"},
			"properties": map[string]any{
				"priority": map[string]any{"enum": []any{"low", "medium", "high"}},
			},
		},
	}

	if err := v.Validate(def, map[string]any{"priority": "high"}); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}

	err := v.Validate(def, map[string]any{"priority": "urgent"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := v.Validate(def, nil); err == nil {
		t.Fatalf("missing required field must fail")
	}
}

func TestPayloadValidatorSkipsEmptySchema(t *testing.T) {
	v := NewPayloadValidator()
	if err := v.Validate(ActionDefinition{Kind: "booking.update_status"}, map[string]any{"anything": true}); err != nil {
		t.Fatalf("empty schema must accept any payload: %v", err)
	}
}

func TestPayloadValidatorCachesCompiledSchema(t *testing.T) {
	v := NewPayloadValidator()
	def := ActionDefinition{
		Kind:          "booking.update_status",
		PayloadSchema: map[string]any{"type": "object"},
	}
	if err := v.Validate(def, map[string]any{}); err != nil {
		t.Fatalf("first validate: %v", err)
	}
	// The second call round-trips the same compiled schema.
	if err := v.Validate(def, map[string]any{"x": 1}); err != nil {
		t.Fatalf("second validate: %v", err)
	}
}
