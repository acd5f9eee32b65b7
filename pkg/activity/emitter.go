package activity

import "context"

// Config controls the emitter.
type Config struct {
	// Enabled gates emission entirely; a disabled emitter drops events.
	Enabled bool
	// Channel overrides the default channel tag.
	Channel string
}

// Emitter is the audit-trail entry point held by application wiring.
type Emitter struct {
	hooks Hooks
	cfg   Config
}

// NewEmitter builds an emitter over the given hooks.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	return &Emitter{hooks: hooks, cfg: cfg}
}

// Enabled reports whether events will actually be delivered.
func (e *Emitter) Enabled() bool {
	return e != nil && e.cfg.Enabled && len(e.hooks) > 0
}

// Emit delivers one event through the hooks. Disabled emitters drop events
// silently so call sites need no guards.
func (e *Emitter) Emit(ctx context.Context, evt Event) error {
	if !e.Enabled() {
		return nil
	}
	if evt.Channel == "" && e.cfg.Channel != "" {
		evt.Channel = e.cfg.Channel
	}
	return e.hooks.Notify(ctx, evt)
}
