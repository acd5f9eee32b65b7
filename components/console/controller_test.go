package console

import (
	"context"
	"io"
	"testing"
)

type recordingRenderer struct {
	name string
	data map[string]any
}

func (r *recordingRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.name = name
	if m, ok := data.(map[string]any); ok {
		r.data = m
	}
	return "<html>", nil
}

func newControllerFixture(fetcher *bookingFetcher) (*Controller, *recordingRenderer, *Service) {
	service := NewService(Options{})
	desc := bookingsDescriptor()
	desc.Columns = []Column{
		{Key: "reference", Label: "Reference"},
		{Key: "service", Label: "Service"},
		{Key: "status", Label: "Status"},
	}
	page := NewPage(PageConfig[Booking]{
		Descriptor: desc,
		Fetcher:    fetcher,
		Matcher:    bookingMatcher(),
		View: func(b Booking) RowView {
			return RowView{
				ID:            b.ItemID(),
				DisplayName:   b.CustomerName,
				DisplayStatus: b.Status,
				Fields: map[string]any{
					"reference": b.Reference,
					"service":   b.Service,
					"status":    b.Status,
				},
			}
		},
	})
	renderer := &recordingRenderer{}
	controller := NewController(service, renderer)
	if err := service.RegisterPage(page); err != nil {
		panic(err)
	}
	return controller, renderer, service
}

func TestControllerRenderIndex(t *testing.T) {
	controller, renderer, _ := newControllerFixture(&bookingFetcher{})

	html, err := controller.RenderIndex(context.Background())
	if err != nil {
		t.Fatalf("render index: %v", err)
	}
	if html != "<html>" || renderer.name != "index" {
		t.Fatalf("expected index template, got %q", renderer.name)
	}
	descriptors, ok := renderer.data["descriptors"].([]Descriptor)
	if !ok || len(descriptors) == 0 {
		t.Fatalf("index must receive the registered descriptors")
	}
}

func TestControllerRenderListBuildsTable(t *testing.T) {
	fetcher := &bookingFetcher{items: sampleBookings()}
	controller, renderer, _ := newControllerFixture(fetcher)

	if _, err := controller.RenderList(context.Background(), "admin.console.bookings", Query{}); err != nil {
		t.Fatalf("render list: %v", err)
	}
	if renderer.name != "list" {
		t.Fatalf("expected list template, got %q", renderer.name)
	}

	rows, ok := renderer.data["rows"].([]TableRow)
	if !ok || len(rows) != 3 {
		t.Fatalf("expected 3 table rows, got %v", renderer.data["rows"])
	}
	cells := rows[0].Cells
	if len(cells) != 3 {
		t.Fatalf("cells must follow descriptor columns, got %v", cells)
	}
	if cells[0] != rows[0].Row.Fields["reference"] || cells[2] != rows[0].Row.Fields["status"] {
		t.Fatalf("cell order mismatch: %v vs %v", cells, rows[0].Row.Fields)
	}

	snapshot, ok := renderer.data["snapshot"].(PageSnapshot)
	if !ok || snapshot.Phase != "ready" {
		t.Fatalf("snapshot not passed to the template: %v", renderer.data["snapshot"])
	}
}

func TestControllerRenderListToleratesFetchError(t *testing.T) {
	fetcher := &bookingFetcher{err: io.ErrUnexpectedEOF}
	controller, renderer, _ := newControllerFixture(fetcher)

	if _, err := controller.RenderList(context.Background(), "admin.console.bookings", Query{}); err != nil {
		t.Fatalf("error phase should still render: %v", err)
	}
	snapshot, ok := renderer.data["snapshot"].(PageSnapshot)
	if !ok || snapshot.Phase != PhaseError.String() {
		t.Fatalf("expected error snapshot, got %v", renderer.data["snapshot"])
	}
}

func TestControllerRenderListUnknownCollection(t *testing.T) {
	controller, _, _ := newControllerFixture(&bookingFetcher{})

	if _, err := controller.RenderList(context.Background(), "admin.console.nope", Query{}); err == nil {
		t.Fatalf("unknown collection must fail")
	}
}

func TestControllerRequiresRenderer(t *testing.T) {
	controller := NewController(NewService(Options{}), nil)
	if _, err := controller.RenderIndex(context.Background()); err == nil {
		t.Fatalf("index without renderer must fail")
	}
	if _, err := controller.RenderList(context.Background(), "x", Query{}); err == nil {
		t.Fatalf("list without renderer must fail")
	}
}
