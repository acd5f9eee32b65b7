package goadmin_test

import (
	"context"
	"testing"

	core "github.com/goliatone/go-console/components/console"
	consolepkg "github.com/goliatone/go-console/pkg/console"
	"github.com/goliatone/go-console/pkg/goadmin"
)

type stubMenuBuilder struct {
	items []goadmin.MenuItem
}

func (s *stubMenuBuilder) EnsureMenuItem(_ context.Context, _ string, item goadmin.MenuItem) error {
	s.items = append(s.items, item)
	return nil
}

func TestAdminBootstrapSeedsMenu(t *testing.T) {
	builder := &stubMenuBuilder{}
	registry := core.NewEmptyRegistry()
	if err := registry.RegisterDescriptor(core.Descriptor{
		Code:     "admin.console.bookings",
		Name:     "Bookings",
		Topic:    "bookings-updated",
		ListPath: "/admin/console/admin.console.bookings",
	}); err != nil {
		t.Fatalf("RegisterDescriptor returned error: %v", err)
	}
	service := consolepkg.NewService(consolepkg.Options{Registry: registry})

	admin, err := goadmin.New(goadmin.Config{
		EnableConsole: true,
		Service:       service,
		MenuBuilder:   builder,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if len(builder.items) != 2 {
		t.Fatalf("expected 2 menu items, got %d", len(builder.items))
	}
	if builder.items[0].Label != "Console" || builder.items[0].Route != "admin.console" {
		t.Fatalf("unexpected default item: %+v", builder.items[0])
	}
	if builder.items[1].Label != "Bookings" || builder.items[1].Route != "/admin/console/admin.console.bookings" {
		t.Fatalf("unexpected collection item: %+v", builder.items[1])
	}
	if builder.items[1].Position <= builder.items[0].Position {
		t.Fatalf("expected collection entry after default entry")
	}
	if admin.Console() == nil {
		t.Fatalf("expected console service")
	}
}

func TestAdminDisabledSkipsBootstrap(t *testing.T) {
	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{
		EnableConsole: false,
		MenuBuilder:   builder,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if len(builder.items) != 0 {
		t.Fatalf("expected 0 menu items, got %d", len(builder.items))
	}
	if admin.Console() != nil {
		t.Fatalf("expected nil console when disabled")
	}
}

func TestAdminRequiresServiceWhenEnabled(t *testing.T) {
	if _, err := goadmin.New(goadmin.Config{EnableConsole: true}); err == nil {
		t.Fatalf("expected error when enabled without service")
	}
}
