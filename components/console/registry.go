package console

import (
	"fmt"
	"sync"
)

// Column describes one table column rendered for a collection.
type Column struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// Descriptor declares everything the console needs to run one list page:
// where the collection lives, which fields are searchable, which statuses
// exist, and which actions rows support.
type Descriptor struct {
	Code          string             `json:"code" yaml:"code"`
	Name          string             `json:"name" yaml:"name"`
	Description   string             `json:"description,omitempty" yaml:"description,omitempty"`
	Topic         string             `json:"topic" yaml:"topic"`
	ListPath      string             `json:"list_path" yaml:"list_path"`
	ProfileSource string             `json:"profile_source,omitempty" yaml:"profile_source,omitempty"`
	SearchFields  []string           `json:"search_fields,omitempty" yaml:"search_fields,omitempty"`
	StatusValues  []string           `json:"status_values,omitempty" yaml:"status_values,omitempty"`
	Badges        map[string]string  `json:"badges,omitempty" yaml:"badges,omitempty"`
	Columns       []Column           `json:"columns,omitempty" yaml:"columns,omitempty"`
	Actions       []ActionDefinition `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// Action returns the action definition for a kind.
func (d Descriptor) Action(kind string) (ActionDefinition, bool) {
	for _, action := range d.Actions {
		if action.Kind == kind {
			return action, true
		}
	}
	return ActionDefinition{}, false
}

// Badge maps a display status to its badge color, defaulting to "neutral".
func (d Descriptor) Badge(status string) string {
	if color, ok := d.Badges[status]; ok {
		return color
	}
	return "neutral"
}

// ConsoleHook lets packages register collections during init().
type ConsoleHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []ConsoleHook
)

// RegisterConsoleHook registers a hook executed against new registries.
func RegisterConsoleHook(h ConsoleHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry stores collection descriptors discoverable via hooks or
// manifests.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]Descriptor
}

// NewRegistry builds a registry seeded with the default admin collections
// and applies global hooks.
func NewRegistry() *Registry {
	reg := &Registry{descriptors: map[string]Descriptor{}}
	for _, desc := range DefaultDescriptors() {
		_ = reg.RegisterDescriptor(desc)
	}
	_ = reg.ApplyHooks()
	return reg
}

// NewEmptyRegistry builds a registry without defaults, for applications
// that declare collections exclusively through manifests.
func NewEmptyRegistry() *Registry {
	return &Registry{descriptors: map[string]Descriptor{}}
}

// ApplyHooks executes registered console hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDescriptor stores collection metadata.
func (r *Registry) RegisterDescriptor(desc Descriptor) error {
	if desc.Code == "" {
		return fmt.Errorf("collection descriptor code is required")
	}
	if desc.Topic == "" {
		return fmt.Errorf("collection %s requires a broadcast topic", desc.Code)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptors[desc.Code] = desc
	return nil
}

// Descriptor fetches a collection descriptor by code.
func (r *Registry) Descriptor(code string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.descriptors[code]
	return desc, ok
}

// Descriptors returns all registered descriptors.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descs := make([]Descriptor, 0, len(r.descriptors))
	for _, desc := range r.descriptors {
		descs = append(descs, desc)
	}
	return descs
}
