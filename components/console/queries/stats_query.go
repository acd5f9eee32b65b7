package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	console "github.com/goliatone/go-console/components/console"
)

type statsService interface {
	Snapshot(code string) (console.PageSnapshot, error)
}

// StatsQuery derives the status breakdown for a collection from its
// committed snapshot.
type StatsQuery struct {
	service statsService
}

// NewStatsQuery builds the query.
func NewStatsQuery(service statsService) *StatsQuery {
	return &StatsQuery{service: service}
}

var _ gocommand.Querier[string, console.StatusCounts] = (*StatsQuery)(nil)

// Query returns the stats for the collection.
func (q *StatsQuery) Query(ctx context.Context, code string) (console.StatusCounts, error) {
	snapshot, err := q.service.Snapshot(code)
	if err != nil {
		return console.StatusCounts{}, err
	}
	return snapshot.Stats, nil
}
