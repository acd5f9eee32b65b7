package console

import (
	"encoding/json"
	"testing"
)

func TestRefUnmarshalBareID(t *testing.T) {
	var ref Ref[Profile]
	if err := json.Unmarshal([]byte(`"usr-1"`), &ref); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ref.ID() != "usr-1" {
		t.Fatalf("expected id usr-1, got %q", ref.ID())
	}
	if _, ok := ref.Resolved(); ok {
		t.Fatalf("bare id should not be resolved")
	}
}

func TestRefUnmarshalEmbeddedObject(t *testing.T) {
	var ref Ref[Profile]
	payload := `{"_id":"usr-2","firstName":"Asha","lastName":"Rao","email":"asha@example.com"}`
	if err := json.Unmarshal([]byte(payload), &ref); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ref.ID() != "usr-2" {
		t.Fatalf("expected id usr-2, got %q", ref.ID())
	}
	profile, ok := ref.Resolved()
	if !ok {
		t.Fatalf("embedded object should be resolved")
	}
	if profile.Name != "Asha Rao" || profile.Email != "asha@example.com" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestRefUnmarshalNull(t *testing.T) {
	ref := UnresolvedRef[Profile]("stale")
	if err := json.Unmarshal([]byte(`null`), &ref); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !ref.IsZero() {
		t.Fatalf("null should decode to the zero reference")
	}
}

func TestRefMarshalRoundTrip(t *testing.T) {
	bare, err := json.Marshal(UnresolvedRef[Profile]("usr-3"))
	if err != nil {
		t.Fatalf("marshal bare: %v", err)
	}
	if string(bare) != `"usr-3"` {
		t.Fatalf("expected bare id, got %s", bare)
	}

	resolved, err := json.Marshal(ResolvedRef(Profile{ID: "usr-4", Name: "Miguel"}))
	if err != nil {
		t.Fatalf("marshal resolved: %v", err)
	}
	var profile Profile
	if err := json.Unmarshal(resolved, &profile); err != nil {
		t.Fatalf("decode resolved: %v", err)
	}
	if profile.ID != "usr-4" || profile.Name != "Miguel" {
		t.Fatalf("unexpected round trip: %+v", profile)
	}

	zero, err := json.Marshal(Ref[Profile]{})
	if err != nil {
		t.Fatalf("marshal zero: %v", err)
	}
	if string(zero) != "null" {
		t.Fatalf("expected null for zero ref, got %s", zero)
	}
}

func TestRefResolveKeepsID(t *testing.T) {
	ref := UnresolvedRef[Profile]("usr-5").Resolve(Profile{ID: "usr-5", Name: "Priya"})
	if ref.ID() != "usr-5" {
		t.Fatalf("expected id preserved, got %q", ref.ID())
	}
	if profile, ok := ref.Resolved(); !ok || profile.Name != "Priya" {
		t.Fatalf("expected resolved profile, got %+v ok=%v", profile, ok)
	}
}
