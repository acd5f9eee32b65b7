package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// PayloadValidator compiles per-action payload schemas and validates
// dispatch payloads before any network call is made.
type PayloadValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewPayloadValidator builds a validator backed by jsonschema v5.
func NewPayloadValidator() *PayloadValidator {
	return &PayloadValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures the payload satisfies the action's declared schema.
func (v *PayloadValidator) Validate(def ActionDefinition, payload map[string]any) error {
	if len(def.PayloadSchema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(def)
	if err != nil {
		return err
	}
	normalized := map[string]any{}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("console: marshal payload for %s: %w", def.Kind, err)
		}
		if err := json.Unmarshal(data, &normalized); err != nil {
			return fmt.Errorf("console: normalize payload for %s: %w", def.Kind, err)
		}
	}
	if err := schema.Validate(normalized); err != nil {
		return &ValidationError{Field: "payload", Message: err.Error()}
	}
	return nil
}

func (v *PayloadValidator) schemaFor(def ActionDefinition) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[def.Kind]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(def.PayloadSchema)
	if err != nil {
		return nil, fmt.Errorf("console: marshal schema %s: %w", def.Kind, err)
	}
	compiler := jsonschema.NewCompiler()
	name := def.Kind + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("console: load schema %s: %w", def.Kind, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("console: compile schema %s: %w", def.Kind, err)
	}
	v.mu.Lock()
	v.compiled[def.Kind] = compiled
	v.mu.Unlock()
	return compiled, nil
}
