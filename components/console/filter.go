package console

import "strings"

// FilterAll is the sentinel meaning "no categorical filter".
const FilterAll = "all"

// FilterState is owned by the page component, mutated only by user input,
// and never persisted across navigation.
type FilterState struct {
	Search      string `json:"search"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	PaymentMode string `json:"payment_mode"`
}

// IsIdentity reports a filter state that matches every item.
func (f FilterState) IsIdentity() bool {
	return strings.TrimSpace(f.Search) == "" &&
		isAllSentinel(f.Status) &&
		isAllSentinel(f.Priority) &&
		isAllSentinel(f.PaymentMode)
}

func isAllSentinel(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", FilterAll:
		return true
	default:
		return false
	}
}

// FieldGetter reads one searchable field off a row. Getters must be
// null-safe: a missing field reads as "".
type FieldGetter[T Item] func(T) string

// Matcher is the pure filter predicate for one collection. Match is
// idempotent and side-effect free so it can be re-run on every keystroke.
type Matcher[T Item] struct {
	SearchFields []FieldGetter[T]
	Status       FieldGetter[T]
	Priority     FieldGetter[T]
	PaymentMode  FieldGetter[T]
}

// Match combines free-text search with the categorical filters. Sentinel
// values ("", "all") match everything; comparisons are case-insensitive.
func (m Matcher[T]) Match(item T, f FilterState) bool {
	if !matchesCategory(m.Status, item, f.Status) {
		return false
	}
	if !matchesCategory(m.Priority, item, f.Priority) {
		return false
	}
	if !matchesCategory(m.PaymentMode, item, f.PaymentMode) {
		return false
	}
	return m.matchesSearch(item, f.Search)
}

// Apply filters a list preserving order, returning the visible subset.
func (m Matcher[T]) Apply(items []T, f FilterState) []T {
	if f.IsIdentity() {
		return items
	}
	visible := make([]T, 0, len(items))
	for _, item := range items {
		if m.Match(item, f) {
			visible = append(visible, item)
		}
	}
	return visible
}

func (m Matcher[T]) matchesSearch(item T, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range m.SearchFields {
		if field == nil {
			continue
		}
		if strings.Contains(strings.ToLower(field(item)), term) {
			return true
		}
	}
	return false
}

func matchesCategory[T Item](getter FieldGetter[T], item T, want string) bool {
	if isAllSentinel(want) || getter == nil {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(getter(item)), strings.TrimSpace(want))
}
