package console

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ApplyPolicy fixes, per action kind, how a successful mutation reaches the
// store: a targeted row patch or a full refetch. The choice is part of the
// action definition so it can never vary call to call.
type ApplyPolicy string

const (
	ApplyPolicyPatch   ApplyPolicy = "patch"
	ApplyPolicyRefetch ApplyPolicy = "refetch"
)

// ActionDefinition declares one mutation a collection supports.
type ActionDefinition struct {
	Kind          string         `json:"kind" yaml:"kind"`
	Name          string         `json:"name" yaml:"name"`
	Method        string         `json:"method" yaml:"method"`
	Path          string         `json:"path" yaml:"path"`
	Policy        ApplyPolicy    `json:"policy" yaml:"policy"`
	Topic         string         `json:"topic,omitempty" yaml:"topic,omitempty"`
	Required      []string       `json:"required,omitempty" yaml:"required,omitempty"`
	StatusField   string         `json:"status_field,omitempty" yaml:"status_field,omitempty"`
	PayloadSchema map[string]any `json:"payload_schema,omitempty" yaml:"payload_schema,omitempty"`
}

// ActionIntent is the ephemeral record of a user-initiated mutation. It is
// held while a modal is open, discarded on cancel, and converted into
// exactly one outbound mutation on submit.
type ActionIntent struct {
	ID       uuid.UUID      `json:"id"`
	Kind     string         `json:"kind"`
	TargetID string         `json:"target_id"`
	Payload  map[string]any `json:"payload,omitempty"`
	ActorID  string         `json:"actor_id,omitempty"`
}

// NewActionIntent builds an intent with a fresh id.
func NewActionIntent(kind, targetID string, payload map[string]any) ActionIntent {
	return ActionIntent{
		ID:       uuid.New(),
		Kind:     kind,
		TargetID: targetID,
		Payload:  payload,
	}
}

// Mutator issues the single outbound mutation for a dispatched action.
type Mutator interface {
	Mutate(ctx context.Context, def ActionDefinition, targetID string, payload map[string]any) (map[string]any, error)
}

// MutatorFunc adapts a function to the Mutator interface.
type MutatorFunc func(ctx context.Context, def ActionDefinition, targetID string, payload map[string]any) (map[string]any, error)

// Mutate calls the wrapped function.
func (f MutatorFunc) Mutate(ctx context.Context, def ActionDefinition, targetID string, payload map[string]any) (map[string]any, error) {
	return f(ctx, def, targetID, payload)
}

// Dispatcher maps UI actions to exactly one backend mutation each. Local
// validation runs before any network call; while a dispatch for a target is
// in flight, repeated submits for the same target return ErrActionInFlight.
type Dispatcher struct {
	mutator   Mutator
	schemas   *PayloadValidator
	telemetry Telemetry

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewDispatcher builds a dispatcher. A nil schema validator skips schema
// checks; Required-field validation always runs.
func NewDispatcher(mutator Mutator, schemas *PayloadValidator, telemetry Telemetry) *Dispatcher {
	return &Dispatcher{
		mutator:   mutator,
		schemas:   schemas,
		telemetry: normalizeTelemetry(telemetry),
		inflight:  make(map[string]struct{}),
	}
}

// Dispatch validates the intent, issues the mutation, and returns whatever
// row data the backend sent back. On failure no state has been touched and
// the server's message travels up verbatim.
func (d *Dispatcher) Dispatch(ctx context.Context, def ActionDefinition, intent ActionIntent) (map[string]any, error) {
	if d.mutator == nil {
		return nil, errMissingMutator
	}
	if err := validateIntent(def, intent); err != nil {
		return nil, err
	}
	if d.schemas != nil && len(def.PayloadSchema) > 0 {
		if err := d.schemas.Validate(def, intent.Payload); err != nil {
			return nil, err
		}
	}

	key := def.Kind + ":" + intent.TargetID
	d.mu.Lock()
	if _, busy := d.inflight[key]; busy {
		d.mu.Unlock()
		return nil, ErrActionInFlight
	}
	d.inflight[key] = struct{}{}
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		delete(d.inflight, key)
		d.mu.Unlock()
	}()

	data, err := d.mutator.Mutate(ctx, def, intent.TargetID, intent.Payload)
	if err != nil {
		d.telemetry.Record(ctx, "console.action.rejected", map[string]any{
			"kind":   def.Kind,
			"target": intent.TargetID,
			"error":  err.Error(),
		})
		return nil, err
	}
	d.telemetry.Record(ctx, "console.action.applied", map[string]any{
		"kind":   def.Kind,
		"target": intent.TargetID,
		"intent": intent.ID.String(),
	})
	return data, nil
}

// InFlight reports whether a dispatch is pending for the given action and
// target. Pages use it to mark rows as busy.
func (d *Dispatcher) InFlight(kind, targetID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, busy := d.inflight[kind+":"+targetID]
	return busy
}

// TargetInFlight reports whether any action is pending for the target row.
func (d *Dispatcher) TargetInFlight(targetID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key := range d.inflight {
		if strings.HasSuffix(key, ":"+targetID) {
			return true
		}
	}
	return false
}

func validateIntent(def ActionDefinition, intent ActionIntent) error {
	if strings.TrimSpace(intent.TargetID) == "" {
		return &ValidationError{Field: "target_id", Message: "a target row is required"}
	}
	for _, field := range def.Required {
		value, ok := intent.Payload[field]
		if !ok {
			return &ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field)}
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			return &ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field)}
		}
	}
	return nil
}
