package console

import (
	"strings"
	"testing"
)

func TestRegistryRegisterDescriptor(t *testing.T) {
	reg := NewEmptyRegistry()

	if err := reg.RegisterDescriptor(Descriptor{Name: "Bookings"}); err == nil {
		t.Fatalf("expected error for missing code")
	}
	if err := reg.RegisterDescriptor(Descriptor{Code: "admin.console.bookings"}); err == nil {
		t.Fatalf("expected error for missing topic")
	}

	desc := Descriptor{
		Code:  "admin.console.bookings",
		Name:  "Bookings",
		Topic: "bookings-updated",
	}
	if err := reg.RegisterDescriptor(desc); err != nil {
		t.Fatalf("register: %v", err)
	}
	got, ok := reg.Descriptor("admin.console.bookings")
	if !ok || got.Name != "Bookings" {
		t.Fatalf("descriptor lookup failed: %+v ok=%v", got, ok)
	}
	if len(reg.Descriptors()) != 1 {
		t.Fatalf("expected one descriptor")
	}
}

func TestNewRegistrySeedsDefaults(t *testing.T) {
	reg := NewRegistry()
	descs := reg.Descriptors()
	if len(descs) != len(DefaultDescriptors()) {
		t.Fatalf("expected %d default collections, got %d", len(DefaultDescriptors()), len(descs))
	}
	for _, desc := range descs {
		if desc.Topic == "" {
			t.Fatalf("default collection %s missing a topic", desc.Code)
		}
		if !strings.HasPrefix(desc.Code, "admin.console.") {
			t.Fatalf("unexpected default code %s", desc.Code)
		}
		for _, action := range desc.Actions {
			if action.Policy != ApplyPolicyPatch && action.Policy != ApplyPolicyRefetch {
				t.Fatalf("action %s on %s has invalid policy %q", action.Kind, desc.Code, action.Policy)
			}
		}
	}
}

func TestDescriptorActionAndBadge(t *testing.T) {
	desc := Descriptor{
		Code:   "admin.console.tickets",
		Badges: map[string]string{"open": "info", "closed": "success"},
		Actions: []ActionDefinition{
			{Kind: "ticket.update_priority", Policy: ApplyPolicyPatch},
		},
	}

	if _, ok := desc.Action("ticket.update_priority"); !ok {
		t.Fatalf("expected declared action")
	}
	if _, ok := desc.Action("ticket.delete"); ok {
		t.Fatalf("undeclared action must not resolve")
	}
	if got := desc.Badge("open"); got != "info" {
		t.Fatalf("expected info badge, got %q", got)
	}
	if got := desc.Badge("weird"); got != "neutral" {
		t.Fatalf("expected neutral default, got %q", got)
	}
}
