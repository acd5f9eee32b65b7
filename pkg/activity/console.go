package activity

import (
	"context"

	console "github.com/goliatone/go-console/components/console"
)

// ServiceHook bridges the console's action dispatches into the activity
// trail. Register it on the console service's Options.Activity.
type ServiceHook struct {
	Emitter *Emitter
}

// ActionApplied records one successfully applied admin action.
func (h ServiceHook) ActionApplied(ctx context.Context, collection string, def console.ActionDefinition, intent console.ActionIntent) {
	if h.Emitter == nil {
		return
	}
	meta := console.ActivityFromContext(ctx)
	actorID := meta.ActorID
	if actorID == "" {
		actorID = intent.ActorID
	}
	_ = h.Emitter.Emit(ctx, Event{
		Verb:           def.Kind,
		ActorID:        actorID,
		UserID:         meta.UserID,
		TenantID:       meta.TenantID,
		ObjectType:     collection,
		ObjectID:       intent.TargetID,
		DefinitionCode: collection + ":" + def.Kind,
		Metadata: map[string]any{
			"intent_id": intent.ID.String(),
			"policy":    string(def.Policy),
		},
	})
}
