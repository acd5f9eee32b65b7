package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	console "github.com/goliatone/go-console/components/console"
)

// RefreshCollectionInput notifies subscribers that a collection changed
// outside the console (imports, backoffice jobs).
type RefreshCollectionInput struct {
	Event console.Event
}

type refreshNotifier interface {
	NotifyCollectionUpdated(ctx context.Context, event console.Event) error
}

// RefreshCollectionCommand triggers collection refresh broadcasts without
// forcing transports to hold the service.
type RefreshCollectionCommand struct {
	service   refreshNotifier
	telemetry Telemetry
}

// NewRefreshCollectionCommand creates the command.
func NewRefreshCollectionCommand(service refreshNotifier, telemetry Telemetry) *RefreshCollectionCommand {
	return &RefreshCollectionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshCollectionInput] = (*RefreshCollectionCommand)(nil)

// Execute publishes the collection event.
func (c *RefreshCollectionCommand) Execute(ctx context.Context, msg RefreshCollectionInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	if msg.Event.Topic == "" {
		return errors.New("refresh command requires a topic")
	}
	if err := c.service.NotifyCollectionUpdated(ctx, msg.Event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.command.refresh", map[string]any{
		"topic":      msg.Event.Topic,
		"collection": msg.Event.Collection,
	})
	return nil
}
