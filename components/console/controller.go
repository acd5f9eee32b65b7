package console

import (
	"context"
	"fmt"
)

// Controller renders HTML views over the console service. Transports that
// speak JSON use the service directly; the controller exists for
// server-rendered admin pages.
type Controller struct {
	service  *Service
	renderer Renderer
	charts   *StatsChartProvider
}

// NewController wires the service and a template renderer into a controller.
func NewController(service *Service, renderer Renderer) *Controller {
	return &Controller{
		service:  service,
		renderer: renderer,
		charts:   NewStatsChartProvider("bar"),
	}
}

// WithCharts overrides the default stats chart provider.
func (c *Controller) WithCharts(provider *StatsChartProvider) *Controller {
	c.charts = provider
	return c
}

// RenderIndex renders the collection directory page.
func (c *Controller) RenderIndex(ctx context.Context) (string, error) {
	if c.renderer == nil {
		return "", fmt.Errorf("console: renderer is required")
	}
	return c.renderer.Render("index", map[string]any{
		"descriptors": c.service.Registry().Descriptors(),
	})
}

// RenderList fetches a page of the collection and renders the list view
// from its committed snapshot.
func (c *Controller) RenderList(ctx context.Context, code string, q Query) (string, error) {
	if c.renderer == nil {
		return "", fmt.Errorf("console: renderer is required")
	}
	page, ok := c.service.Page(code)
	if !ok {
		return "", fmt.Errorf("%w: %s", errUnknownCollection, code)
	}
	snapshot, fetchErr := c.service.FetchPage(ctx, code, q)
	if fetchErr != nil && snapshot.Phase != PhaseError.String() {
		return "", fetchErr
	}
	desc := page.Descriptor()
	data := map[string]any{
		"descriptor": desc,
		"snapshot":   snapshot,
		"query":      q,
		"rows":       tableRows(desc, snapshot.Rows),
	}
	if c.charts != nil && snapshot.Stats.Total > 0 {
		if html, err := c.charts.Render(snapshot); err == nil {
			data["chart_html"] = html
		}
	}
	return c.renderer.Render("list", data)
}

// TableRow pairs a row with its cell values in column order, since the
// template engine cannot index a map by a dynamic key.
type TableRow struct {
	Row   RowView
	Cells []any
}

func tableRows(desc Descriptor, rows []RowView) []TableRow {
	out := make([]TableRow, len(rows))
	for i, row := range rows {
		cells := make([]any, len(desc.Columns))
		for j, column := range desc.Columns {
			cells[j] = row.Fields[column.Key]
		}
		out[i] = TableRow{Row: row, Cells: cells}
	}
	return out
}
