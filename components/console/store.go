package console

import (
	"context"
	"sync"
	"time"
)

// EnrichFunc runs between fetch and commit. Implementations must settle
// every row (success or synthesized fallback) before returning; the store
// commits the returned slice as a single atomic update.
type EnrichFunc[T Item] func(ctx context.Context, items []T) []T

// StoreConfig wires one Store instance.
type StoreConfig[T Item] struct {
	Collection     string
	Fetcher        CollectionFetcher[T]
	Enrich         EnrichFunc[T]
	Telemetry      Telemetry
	SearchDebounce time.Duration
}

// Store holds the fetched list, loading/error flags, and pagination cursor
// for one remote collection. Each page component owns exactly one Store;
// nothing else mutates it.
//
// Concurrent fetches are serialized by a generation counter: only the most
// recently issued fetch may commit. Superseded responses are discarded, and
// a canceled context stops pending commits entirely, so an unmounted page
// never receives a late state update.
type Store[T Item] struct {
	collection string
	fetcher    CollectionFetcher[T]
	enrich     EnrichFunc[T]
	telemetry  Telemetry
	debounce   Debouncer

	mu         sync.Mutex
	gen        uint64
	phase      Phase
	items      []T
	pagination PaginationState
	errMsg     string
	lastQuery  Query
	fetchedAt  time.Time
	unsubs     []func()
}

// NewStore builds a store for one collection.
func NewStore[T Item](cfg StoreConfig[T]) *Store[T] {
	return &Store[T]{
		collection: cfg.Collection,
		fetcher:    cfg.Fetcher,
		enrich:     cfg.Enrich,
		telemetry:  normalizeTelemetry(cfg.Telemetry),
		debounce:   Debouncer{Interval: cfg.SearchDebounce},
	}
}

// Collection returns the collection code the store serves.
func (s *Store[T]) Collection() string { return s.collection }

// Fetch loads one page. The loading phase is entered synchronously before
// the network call; it is left again only by the commit of the same (or a
// newer) fetch, never by a stale response.
func (s *Store[T]) Fetch(ctx context.Context, q Query) error {
	if s.fetcher == nil {
		return errMissingFetcher
	}
	normalizeQuery(&q)

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.phase = PhaseLoading
	s.lastQuery = q
	s.mu.Unlock()

	result, err := s.fetcher.FetchPage(ctx, s.collection, q)
	if err == nil && s.enrich != nil {
		result.Items = s.enrich(ctx, result.Items)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// A newer fetch owns the state now.
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		// Never leave the previous, possibly invalid list on screen.
		s.items = nil
		s.errMsg = err.Error()
		s.phase = PhaseError
		s.telemetry.Record(ctx, "console.store.fetch_error", map[string]any{
			"collection": s.collection,
			"error":      err.Error(),
		})
		return err
	}
	result.Pagination = reconcilePagination(result.Pagination, q, len(result.Items))
	s.items = result.Items
	s.pagination = result.Pagination
	s.errMsg = ""
	s.phase = PhaseReady
	s.fetchedAt = time.Now()
	return nil
}

// Refetch re-runs the last query.
func (s *Store[T]) Refetch(ctx context.Context) error {
	s.mu.Lock()
	q := s.lastQuery
	s.mu.Unlock()
	return s.Fetch(ctx, q)
}

// SetPage fetches a different page keeping the current filters. Page
// changes refetch immediately.
func (s *Store[T]) SetPage(ctx context.Context, page int) error {
	s.mu.Lock()
	q := s.lastQuery
	s.mu.Unlock()
	q.Page = page
	return s.Fetch(ctx, q)
}

// UpdateFilter applies a categorical filter change: immediate refetch from
// the first page.
func (s *Store[T]) UpdateFilter(ctx context.Context, filter FilterState) error {
	s.mu.Lock()
	q := s.lastQuery
	s.mu.Unlock()
	q.Filter = filter
	q.Page = 1
	return s.Fetch(ctx, q)
}

// UpdateSearch applies a free-text search change, debounced so rapid typing
// issues a single trailing fetch.
func (s *Store[T]) UpdateSearch(ctx context.Context, term string) {
	s.mu.Lock()
	q := s.lastQuery
	s.mu.Unlock()
	q.Filter.Search = term
	q.Page = 1
	s.debounce.Trigger(func() {
		_ = s.Fetch(ctx, q)
	})
}

// BindBroadcast subscribes the store to the given topics and refetches on
// every event until cancel is called or ctx ends.
func (s *Store[T]) BindBroadcast(ctx context.Context, b *Broadcast, topics ...string) func() {
	cancels := make([]func(), 0, len(topics))
	for _, topic := range topics {
		events, cancel := b.Subscribe(topic)
		cancels = append(cancels, cancel)
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-events:
					if !ok {
						return
					}
					_ = s.Refetch(ctx)
				}
			}
		}()
	}
	cancelAll := func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
	s.mu.Lock()
	s.unsubs = append(s.unsubs, cancelAll)
	s.mu.Unlock()
	return cancelAll
}

// Close tears the store down: pending debounced fetches are dropped and all
// broadcast subscriptions released.
func (s *Store[T]) Close() {
	s.debounce.Cancel()
	s.mu.Lock()
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()
	for _, unsub := range unsubs {
		unsub()
	}
}

// Phase returns the current lifecycle phase.
func (s *Store[T]) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Err returns the human-readable message of the last failed fetch, empty
// when the last fetch succeeded.
func (s *Store[T]) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Items returns a copy of the committed list.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Pagination returns the committed pagination cursor.
func (s *Store[T]) Pagination() PaginationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

// LastQuery returns the query of the most recent fetch.
func (s *Store[T]) LastQuery() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}

// FetchedAt returns the commit time of the current list.
func (s *Store[T]) FetchedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchedAt
}

// ApplyPatch mutates exactly the row with the given id in place, reporting
// whether it was found. Used by dispatch policies that patch rather than
// refetch.
func (s *Store[T]) ApplyPatch(id string, patch func(*T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ItemID() == id {
			patch(&s.items[i])
			return true
		}
	}
	return false
}

func normalizeQuery(q *Query) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
}

// reconcilePagination fills in whatever the backend omitted and forces the
// cursor to agree with the page that was actually received.
func reconcilePagination(p PaginationState, q Query, received int) PaginationState {
	if p.PageSize <= 0 {
		p.PageSize = q.PageSize
	}
	if p.CurrentPage <= 0 {
		p.CurrentPage = q.Page
	}
	if p.TotalCount <= 0 {
		p.TotalCount = int64(q.Page-1)*int64(p.PageSize) + int64(received)
	}
	if p.TotalPages <= 0 {
		p.TotalPages = int((p.TotalCount + int64(p.PageSize) - 1) / int64(p.PageSize))
	}
	// A short page is the last page no matter what the backend claimed.
	if received < p.PageSize && p.TotalPages > p.CurrentPage {
		p.TotalPages = p.CurrentPage
	}
	p.Normalize()
	return p
}
