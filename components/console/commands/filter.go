package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	console "github.com/goliatone/go-console/components/console"
)

// UpdateFilterInput applies a filter change to a mounted page.
type UpdateFilterInput struct {
	Collection string              `json:"collection" validate:"required"`
	Filter     console.FilterState `json:"filter"`
	Page       int                 `json:"page,omitempty"`
}

type pageSource interface {
	Page(code string) (console.PageHandle, bool)
}

// UpdateFilterCommand applies categorical filter changes immediately and
// resets pagination, matching what the list UI does on dropdown change.
type UpdateFilterCommand struct {
	service   pageSource
	telemetry Telemetry
}

// NewUpdateFilterCommand creates the command.
func NewUpdateFilterCommand(service pageSource, telemetry Telemetry) *UpdateFilterCommand {
	return &UpdateFilterCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateFilterInput] = (*UpdateFilterCommand)(nil)

// Execute applies the filter to the page's store.
func (c *UpdateFilterCommand) Execute(ctx context.Context, msg UpdateFilterInput) error {
	if c.service == nil {
		return errors.New("filter command requires service")
	}
	if err := validate.Struct(msg); err != nil {
		return err
	}
	page, ok := c.service.Page(msg.Collection)
	if !ok {
		return fmt.Errorf("unknown collection: %s", msg.Collection)
	}
	if err := page.SetFilter(ctx, msg.Filter); err != nil {
		return err
	}
	if msg.Page > 1 {
		if err := page.SetPage(ctx, msg.Page); err != nil {
			return err
		}
	}
	c.telemetry.Record(ctx, "console.command.filter", map[string]any{
		"collection": msg.Collection,
		"status":     msg.Filter.Status,
		"search":     msg.Filter.Search,
	})
	return nil
}
