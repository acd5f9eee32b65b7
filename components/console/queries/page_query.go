package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	console "github.com/goliatone/go-console/components/console"
)

// PageInput identifies one list request.
type PageInput struct {
	Collection string
	Query      console.Query
}

type pageService interface {
	FetchPage(ctx context.Context, code string, q console.Query) (console.PageSnapshot, error)
}

// PageQuery executes a remote fetch and returns the committed snapshot.
type PageQuery struct {
	service pageService
}

// NewPageQuery builds the query.
func NewPageQuery(service pageService) *PageQuery {
	return &PageQuery{service: service}
}

var _ gocommand.Querier[PageInput, console.PageSnapshot] = (*PageQuery)(nil)

// Query fetches the requested page.
func (q *PageQuery) Query(ctx context.Context, input PageInput) (console.PageSnapshot, error) {
	return q.service.FetchPage(ctx, input.Collection, input.Query)
}

type snapshotService interface {
	Snapshot(code string) (console.PageSnapshot, error)
}

// SnapshotQuery returns the committed state without touching the network.
type SnapshotQuery struct {
	service snapshotService
}

// NewSnapshotQuery builds the query.
func NewSnapshotQuery(service snapshotService) *SnapshotQuery {
	return &SnapshotQuery{service: service}
}

var _ gocommand.Querier[string, console.PageSnapshot] = (*SnapshotQuery)(nil)

// Query reads the current snapshot for the collection.
func (q *SnapshotQuery) Query(ctx context.Context, code string) (console.PageSnapshot, error) {
	return q.service.Snapshot(code)
}
