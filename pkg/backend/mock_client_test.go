package backend

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	console "github.com/goliatone/go-console/components/console"
)

func seededMock() *MockClient {
	return NewMockClient(MockData{
		Collections: map[string][]map[string]any{
			"/admin/bookings": {
				{"_id": "b1", "status": "pending", "customerName": "Asha Rao"},
				{"_id": "b2", "status": "active", "customerName": "Miguel Ortiz"},
				{"_id": "b3", "status": "pending", "customerName": "Priya Nair"},
			},
		},
		Profiles: map[string]map[string]console.Profile{
			"users": {
				"u1": {ID: "u1", Name: "Asha Rao"},
			},
		},
	})
}

func mockRowsOf(t *testing.T, result ListResult) []map[string]any {
	t.Helper()
	var rows []map[string]any
	if err := json.Unmarshal(result.Items, &rows); err != nil {
		t.Fatalf("decode rows: %v", err)
	}
	return rows
}

func TestMockClientListPagination(t *testing.T) {
	mock := seededMock()

	result, err := mock.List(context.Background(), "/admin/bookings", console.Query{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	rows := mockRowsOf(t, result)
	if len(rows) != 1 || rows[0]["_id"] != "b3" {
		t.Fatalf("expected second page with b3, got %v", rows)
	}
	if result.Pagination.TotalPages != 2 || result.Pagination.TotalCount != 3 {
		t.Fatalf("pagination mismatch: %+v", result.Pagination)
	}
}

func TestMockClientListFilters(t *testing.T) {
	mock := seededMock()

	result, err := mock.List(context.Background(), "/admin/bookings", console.Query{
		Filter: console.FilterState{Status: "PENDING", Search: "priya"},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	rows := mockRowsOf(t, result)
	if len(rows) != 1 || rows[0]["_id"] != "b3" {
		t.Fatalf("combined filter should match only b3, got %v", rows)
	}
}

func TestMockClientMutatePatchesRow(t *testing.T) {
	mock := seededMock()
	def := console.ActionDefinition{Kind: "booking.update_status", Path: "/admin/bookings/{id}/status"}

	echo, err := mock.Mutate(context.Background(), def, "b1", map[string]any{"status": "confirmed"})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if echo["status"] != "confirmed" || echo["customerName"] != "Asha Rao" {
		t.Fatalf("echo should merge payload into the row: %v", echo)
	}

	result, err := mock.List(context.Background(), "/admin/bookings", console.Query{
		Filter: console.FilterState{Status: "confirmed"},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	rows := mockRowsOf(t, result)
	if len(rows) != 1 || rows[0]["_id"] != "b1" {
		t.Fatalf("mutation must persist for refetches, got %v", rows)
	}
}

func TestMockClientMutateUnknownTarget(t *testing.T) {
	mock := seededMock()
	def := console.ActionDefinition{Kind: "booking.update_status", Path: "/admin/bookings/{id}/status"}

	_, err := mock.Mutate(context.Background(), def, "missing", map[string]any{"status": "x"})
	var serverErr *console.ServerError
	if !errors.As(err, &serverErr) || serverErr.Status != 404 {
		t.Fatalf("expected 404 ServerError, got %v", err)
	}
}

func TestMockClientLookupProfiles(t *testing.T) {
	mock := seededMock()

	out, err := mock.LookupProfiles(context.Background(), "users", []string{"u1", "u9"})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(out) != 1 || out["u1"].Name != "Asha Rao" {
		t.Fatalf("only known ids resolve: %v", out)
	}
}

func TestMockClientSeedReplacesRows(t *testing.T) {
	mock := seededMock()
	mock.Seed("/admin/bookings", []map[string]any{{"_id": "b9", "status": "new"}})

	result, err := mock.List(context.Background(), "/admin/bookings", console.Query{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	rows := mockRowsOf(t, result)
	if len(rows) != 1 || rows[0]["_id"] != "b9" {
		t.Fatalf("seed should replace rows, got %v", rows)
	}
}

func TestMockClientFailWith(t *testing.T) {
	mock := seededMock()
	mock.FailWith = console.ErrUnauthorized

	if _, err := mock.List(context.Background(), "/admin/bookings", console.Query{}); !errors.Is(err, console.ErrUnauthorized) {
		t.Fatalf("list should fail, got %v", err)
	}
	if _, err := mock.LookupProfiles(context.Background(), "users", []string{"u1"}); !errors.Is(err, console.ErrUnauthorized) {
		t.Fatalf("lookup should fail, got %v", err)
	}
}
