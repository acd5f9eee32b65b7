package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	console "github.com/goliatone/go-console/components/console"
)

// MockData seeds deterministic API responses for tests or local demos.
// Collections are keyed by list path, profiles by source then id.
type MockData struct {
	Collections map[string][]map[string]any
	Profiles    map[string]map[string]console.Profile
}

// MockClient implements Client using in-memory fixtures. Mutations patch
// the targeted fixture row in place so refetches observe them.
type MockClient struct {
	mu   sync.RWMutex
	data MockData

	// FailWith, when set, is returned by every call. Useful for error
	// path tests.
	FailWith error
}

// NewMockClient builds a mock admin API client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	if data.Collections == nil {
		data.Collections = map[string][]map[string]any{}
	}
	if data.Profiles == nil {
		data.Profiles = map[string]map[string]console.Profile{}
	}
	return &MockClient{data: data}
}

var _ Client = (*MockClient)(nil)

// List pages through the fixture rows, applying the same query params the
// real API honors.
func (c *MockClient) List(ctx context.Context, path string, q console.Query) (ListResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.FailWith != nil {
		return ListResult{}, c.FailWith
	}

	rows := filterRows(c.data.Collections[path], q.Filter)

	size := q.PageSize
	if size <= 0 {
		size = console.DefaultPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	total := len(rows)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	items, err := json.Marshal(rows[start:end])
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{
		Items: items,
		Pagination: console.PaginationState{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalCount:  int64(total),
			PageSize:    size,
		},
	}, nil
}

// Mutate patches the targeted fixture row with the submitted payload and
// echoes the merged row back.
func (c *MockClient) Mutate(ctx context.Context, def console.ActionDefinition, targetID string, payload map[string]any) (map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailWith != nil {
		return nil, c.FailWith
	}

	for path, rows := range c.data.Collections {
		for i, row := range rows {
			if rowID(row) != targetID {
				continue
			}
			for k, v := range payload {
				row[k] = v
			}
			c.data.Collections[path][i] = row
			echo := make(map[string]any, len(row))
			for k, v := range row {
				echo[k] = v
			}
			return echo, nil
		}
	}
	return nil, &console.ServerError{Status: 404, Message: fmt.Sprintf("record %s not found", targetID)}
}

// LookupProfiles resolves fixture profiles by id.
func (c *MockClient) LookupProfiles(ctx context.Context, source string, ids []string) (map[string]console.Profile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.FailWith != nil {
		return nil, c.FailWith
	}

	known := c.data.Profiles[source]
	out := make(map[string]console.Profile, len(ids))
	for _, id := range ids {
		if profile, ok := known[id]; ok {
			out[id] = profile
		}
	}
	return out, nil
}

// Seed replaces the rows for one list path.
func (c *MockClient) Seed(path string, rows []map[string]any) {
	c.mu.Lock()
	c.data.Collections[path] = rows
	c.mu.Unlock()
}

func rowID(row map[string]any) string {
	if id, ok := row["_id"].(string); ok && id != "" {
		return id
	}
	if id, ok := row["id"].(string); ok {
		return id
	}
	return ""
}

func filterRows(rows []map[string]any, f console.FilterState) []map[string]any {
	if f.IsIdentity() {
		return rows
	}
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		if !matchCategory(row, "status", f.Status) {
			continue
		}
		if !matchCategory(row, "priority", f.Priority) {
			continue
		}
		if !matchCategory(row, "paymentMode", f.PaymentMode) {
			continue
		}
		if f.Search != "" && !matchSearch(row, f.Search) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func matchCategory(row map[string]any, field, want string) bool {
	if want == "" || strings.EqualFold(want, console.FilterAll) {
		return true
	}
	have, _ := row[field].(string)
	return strings.EqualFold(have, want)
}

func matchSearch(row map[string]any, term string) bool {
	term = strings.ToLower(term)
	for _, v := range row {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}
