package console

import (
	"context"
	"time"
)

// Item is the minimal contract a collection row must satisfy.
type Item interface {
	ItemID() string
}

// Viewable rows expose stable display values once enrichment has run,
// regardless of which shape the backend returned the row in.
type Viewable interface {
	Item
	DisplayName() string
	DisplayStatus() string
}

// Query captures everything a list fetch needs: filters plus pagination.
type Query struct {
	Filter   FilterState
	Page     int
	PageSize int
	Sort     string
}

// PageResult is the raw outcome of one remote list fetch.
type PageResult[T Item] struct {
	Items      []T
	Pagination PaginationState
}

// PaginationState is recomputed after every fetch and must stay consistent
// with the length of the last received page.
type PaginationState struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
	PageSize    int   `json:"page_size"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// Normalize derives HasNext/HasPrev and clamps the page bounds so a store
// never reports a next page after the last one was received.
func (p *PaginationState) Normalize() {
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	if p.CurrentPage > p.TotalPages {
		p.CurrentPage = p.TotalPages
	}
	p.HasNext = p.CurrentPage < p.TotalPages
	p.HasPrev = p.CurrentPage > 1
}

// DefaultPageSize is used when a query does not specify one.
const DefaultPageSize = 20

// CollectionFetcher retrieves one page of a remote collection.
type CollectionFetcher[T Item] interface {
	FetchPage(ctx context.Context, collection string, q Query) (PageResult[T], error)
}

// FetcherFunc adapts a function to the CollectionFetcher interface.
type FetcherFunc[T Item] func(ctx context.Context, collection string, q Query) (PageResult[T], error)

// FetchPage calls the wrapped function.
func (f FetcherFunc[T]) FetchPage(ctx context.Context, collection string, q Query) (PageResult[T], error) {
	return f(ctx, collection, q)
}

// Phase models one list page's lifecycle: Idle -> Loading -> (Ready|Error),
// with Ready and Error both re-entering Loading on any refetch trigger.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseError
)

// String returns the lower-case phase label used in snapshots and logs.
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// RowView is the type-erased projection of one enriched row handed to
// transports and templates.
type RowView struct {
	ID            string         `json:"id"`
	DisplayName   string         `json:"display_name"`
	DisplayStatus string         `json:"display_status"`
	Badge         string         `json:"badge,omitempty"`
	Amount        float64        `json:"amount,omitempty"`
	Fields        map[string]any `json:"fields,omitempty"`
	ActionPending bool           `json:"action_pending,omitempty"`
}

// ViewFunc projects a typed row into its transport view.
type ViewFunc[T Item] func(T) RowView

// PageSnapshot is the committed view state for one list page. Stats are
// derived from the committed items so they can never drift from the list.
type PageSnapshot struct {
	Collection string          `json:"collection"`
	Phase      string          `json:"phase"`
	Error      string          `json:"error,omitempty"`
	Rows       []RowView       `json:"rows"`
	Pagination PaginationState `json:"pagination"`
	Stats      StatusCounts    `json:"stats"`
	FetchedAt  time.Time       `json:"fetched_at"`
}

// ActionResult reports the outcome of a dispatched mutation.
type ActionResult struct {
	Kind     string         `json:"kind"`
	TargetID string         `json:"target_id"`
	Applied  string         `json:"applied"` // "patch" or "refetch"
	Data     map[string]any `json:"data,omitempty"`
}
