package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	console "github.com/goliatone/go-console/components/console"
)

// DispatchActionInput carries one action intent bound to its collection.
type DispatchActionInput struct {
	Collection string         `json:"collection" validate:"required"`
	Kind       string         `json:"kind" validate:"required"`
	TargetID   string         `json:"target_id" validate:"required"`
	Payload    map[string]any `json:"payload,omitempty"`
	ActorID    string         `json:"actor_id,omitempty"`
}

type dispatchService interface {
	DispatchAction(ctx context.Context, code string, intent console.ActionIntent) (console.ActionResult, error)
}

// DispatchActionCommand translates transport requests into service dispatches
// and emits telemetry so operators can observe admin mutations.
type DispatchActionCommand struct {
	service   dispatchService
	telemetry Telemetry
}

// NewDispatchActionCommand creates a command instance.
func NewDispatchActionCommand(service dispatchService, telemetry Telemetry) *DispatchActionCommand {
	return &DispatchActionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DispatchActionInput] = (*DispatchActionCommand)(nil)

// Execute delegates to the console service.
func (c *DispatchActionCommand) Execute(ctx context.Context, msg DispatchActionInput) error {
	if c.service == nil {
		return errors.New("dispatch command requires service")
	}
	if err := validate.Struct(msg); err != nil {
		return err
	}
	intent := console.NewActionIntent(msg.Kind, msg.TargetID, msg.Payload)
	intent.ActorID = msg.ActorID
	result, err := c.service.DispatchAction(ctx, msg.Collection, intent)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.command.dispatch", map[string]any{
		"collection": msg.Collection,
		"kind":       msg.Kind,
		"target":     msg.TargetID,
		"applied":    result.Applied,
	})
	return nil
}
