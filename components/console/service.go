package console

import (
	"context"
	"fmt"
	"time"
)

// PatchFunc folds a confirmed mutation into the targeted row in place.
type PatchFunc[T Viewable] func(item *T, def ActionDefinition, payload, data map[string]any)

// JoinFunc extracts the auxiliary joins a page needs, grouped by profile
// source. The returned refs point into the slice so the resolver can settle
// them before commit.
type JoinFunc[T Viewable] func(items []T) map[string][]Join

// PageConfig wires one list page.
type PageConfig[T Viewable] struct {
	Descriptor     Descriptor
	Fetcher        CollectionFetcher[T]
	Lookup         ProfileLookup
	Mutator        Mutator
	Matcher        Matcher[T]
	View           ViewFunc[T]
	Joins          JoinFunc[T]
	Patch          PatchFunc[T]
	Broadcast      *Broadcast
	Telemetry      Telemetry
	Schemas        *PayloadValidator
	SearchDebounce time.Duration
}

// Page is one admin list page: a store, its filter predicate, its join
// resolution, and its action dispatch, bound to a collection descriptor.
type Page[T Viewable] struct {
	desc       Descriptor
	store      *Store[T]
	matcher    Matcher[T]
	view       ViewFunc[T]
	patch      PatchFunc[T]
	dispatcher *Dispatcher
	broadcast  *Broadcast
	telemetry  Telemetry
}

// NewPage assembles a page from its config.
func NewPage[T Viewable](cfg PageConfig[T]) *Page[T] {
	telemetry := normalizeTelemetry(cfg.Telemetry)
	page := &Page[T]{
		desc:      cfg.Descriptor,
		matcher:   cfg.Matcher,
		view:      cfg.View,
		patch:     cfg.Patch,
		broadcast: cfg.Broadcast,
		telemetry: telemetry,
	}
	var enrich EnrichFunc[T]
	if cfg.Joins != nil {
		joins := cfg.Joins
		lookup := cfg.Lookup
		enrich = func(ctx context.Context, items []T) []T {
			// One resolver per fetch cycle: profiles are never reused
			// across refetches.
			resolver := NewResolver(lookup, telemetry)
			for source, batch := range joins(items) {
				resolver.ResolveAll(ctx, source, batch)
			}
			return items
		}
	}
	page.store = NewStore(StoreConfig[T]{
		Collection:     cfg.Descriptor.Code,
		Fetcher:        cfg.Fetcher,
		Enrich:         enrich,
		Telemetry:      telemetry,
		SearchDebounce: cfg.SearchDebounce,
	})
	page.dispatcher = NewDispatcher(cfg.Mutator, cfg.Schemas, telemetry)
	return page
}

// Code returns the collection code.
func (p *Page[T]) Code() string { return p.desc.Code }

// Topic returns the broadcast topic the page publishes and listens on.
func (p *Page[T]) Topic() string { return p.desc.Topic }

// Descriptor returns the collection descriptor.
func (p *Page[T]) Descriptor() Descriptor { return p.desc }

// Store exposes the underlying store for typed callers.
func (p *Page[T]) Store() *Store[T] { return p.store }

// Fetch loads a page of the collection.
func (p *Page[T]) Fetch(ctx context.Context, q Query) error {
	return p.store.Fetch(ctx, q)
}

// Refetch re-runs the last query.
func (p *Page[T]) Refetch(ctx context.Context) error {
	return p.store.Refetch(ctx)
}

// Search applies a debounced free-text search.
func (p *Page[T]) Search(ctx context.Context, term string) {
	p.store.UpdateSearch(ctx, term)
}

// SetFilter applies a categorical filter change immediately.
func (p *Page[T]) SetFilter(ctx context.Context, filter FilterState) error {
	return p.store.UpdateFilter(ctx, filter)
}

// SetPage moves to another page of results.
func (p *Page[T]) SetPage(ctx context.Context, page int) error {
	return p.store.SetPage(ctx, page)
}

// Listen subscribes the page to its own topic (and any extras) so sibling
// mutations trigger a refetch. The returned cancel must run on unmount.
func (p *Page[T]) Listen(ctx context.Context, extraTopics ...string) func() {
	if p.broadcast == nil {
		return func() {}
	}
	topics := append([]string{p.desc.Topic}, extraTopics...)
	return p.store.BindBroadcast(ctx, p.broadcast, topics...)
}

// Close tears the page down.
func (p *Page[T]) Close() { p.store.Close() }

// Snapshot builds the committed view state. The in-memory predicate re-runs
// on the committed items, and stats are derived from the same rows, so the
// snapshot can never contradict itself.
func (p *Page[T]) Snapshot() PageSnapshot {
	items := p.store.Items()
	visible := p.matcher.Apply(items, p.store.LastQuery().Filter)
	rows := make([]RowView, 0, len(visible))
	for _, item := range visible {
		row := p.rowView(item)
		rows = append(rows, row)
	}
	return PageSnapshot{
		Collection: p.desc.Code,
		Phase:      p.store.Phase().String(),
		Error:      p.store.Err(),
		Rows:       rows,
		Pagination: p.store.Pagination(),
		Stats:      computeStats(rows),
		FetchedAt:  p.store.FetchedAt(),
	}
}

func (p *Page[T]) rowView(item T) RowView {
	var row RowView
	if p.view != nil {
		row = p.view(item)
	}
	if row.ID == "" {
		row.ID = item.ItemID()
	}
	if row.DisplayName == "" {
		row.DisplayName = item.DisplayName()
	}
	if row.DisplayStatus == "" {
		row.DisplayStatus = item.DisplayStatus()
	}
	if row.Badge == "" {
		row.Badge = p.desc.Badge(normalizeStatusKey(row.DisplayStatus))
	}
	row.ActionPending = p.dispatcher.TargetInFlight(row.ID)
	return row
}

// Dispatch validates and executes one action intent, then applies the
// action's fixed policy: patch the targeted row or refetch the whole list.
// On error the store is untouched.
func (p *Page[T]) Dispatch(ctx context.Context, intent ActionIntent) (ActionResult, error) {
	def, ok := p.desc.Action(intent.Kind)
	if !ok {
		return ActionResult{}, fmt.Errorf("%w: %s on %s", errUnknownAction, intent.Kind, p.desc.Code)
	}
	data, err := p.dispatcher.Dispatch(ctx, def, intent)
	if err != nil {
		return ActionResult{}, err
	}

	result := ActionResult{Kind: def.Kind, TargetID: intent.TargetID, Data: data}
	switch def.Policy {
	case ApplyPolicyPatch:
		result.Applied = string(ApplyPolicyPatch)
		p.store.ApplyPatch(intent.TargetID, func(item *T) {
			if p.patch != nil {
				p.patch(item, def, intent.Payload, data)
			}
		})
	default:
		result.Applied = string(ApplyPolicyRefetch)
		if err := p.store.Refetch(ctx); err != nil {
			// The mutation succeeded; a failed refetch surfaces through
			// the store's own error state.
			p.telemetry.Record(ctx, "console.page.refetch_error", map[string]any{
				"collection": p.desc.Code,
				"error":      err.Error(),
			})
		}
	}
	if p.broadcast != nil && def.Topic != "" {
		_ = p.broadcast.Publish(ctx, Event{
			Topic:      def.Topic,
			Collection: p.desc.Code,
			ItemID:     intent.TargetID,
			Action:     def.Kind,
		})
	}
	return result, nil
}

// PageHandle is the type-erased surface the service and transports use.
type PageHandle interface {
	Code() string
	Topic() string
	Descriptor() Descriptor
	Fetch(ctx context.Context, q Query) error
	Refetch(ctx context.Context) error
	Search(ctx context.Context, term string)
	SetFilter(ctx context.Context, filter FilterState) error
	SetPage(ctx context.Context, page int) error
	Snapshot() PageSnapshot
	Dispatch(ctx context.Context, intent ActionIntent) (ActionResult, error)
	Listen(ctx context.Context, extraTopics ...string) func()
	Close()
}

// ActivityHook observes successfully applied actions for audit trails.
type ActivityHook interface {
	ActionApplied(ctx context.Context, collection string, def ActionDefinition, intent ActionIntent)
}

// Options configures the console Service. Every collaborator is provided
// via interface so applications can swap implementations.
type Options struct {
	Registry  *Registry
	Broadcast *Broadcast
	Telemetry Telemetry
	Schemas   *PayloadValidator
	Activity  ActivityHook
}

// Service coordinates the registered list pages, their shared broadcast
// registry, and the audit trail.
type Service struct {
	opts  Options
	pages map[string]PageHandle
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Broadcast == nil {
		opts.Broadcast = NewBroadcast()
	}
	if opts.Schemas == nil {
		opts.Schemas = NewPayloadValidator()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{opts: opts, pages: map[string]PageHandle{}}
}

// Registry exposes the collection registry.
func (s *Service) Registry() *Registry { return s.opts.Registry }

// Broadcast exposes the shared event registry for transports.
func (s *Service) Broadcast() *Broadcast { return s.opts.Broadcast }

// Schemas exposes the shared payload validator so pages reuse compiled
// schemas.
func (s *Service) Schemas() *PayloadValidator { return s.opts.Schemas }

// Telemetry exposes the configured telemetry sink.
func (s *Service) Telemetry() Telemetry { return s.opts.Telemetry }

// RegisterPage adds a page to the service.
func (s *Service) RegisterPage(page PageHandle) error {
	if page == nil {
		return fmt.Errorf("console: page is required")
	}
	if _, exists := s.pages[page.Code()]; exists {
		return fmt.Errorf("console: page %s already registered", page.Code())
	}
	s.pages[page.Code()] = page
	return nil
}

// Page returns a registered page by collection code.
func (s *Service) Page(code string) (PageHandle, bool) {
	page, ok := s.pages[code]
	return page, ok
}

// Pages returns all registered pages.
func (s *Service) Pages() []PageHandle {
	out := make([]PageHandle, 0, len(s.pages))
	for _, page := range s.pages {
		out = append(out, page)
	}
	return out
}

// FetchPage loads a page of the named collection and returns the committed
// snapshot.
func (s *Service) FetchPage(ctx context.Context, code string, q Query) (PageSnapshot, error) {
	page, ok := s.pages[code]
	if !ok {
		return PageSnapshot{}, fmt.Errorf("%w: %s", errUnknownCollection, code)
	}
	if err := page.Fetch(ctx, q); err != nil {
		return page.Snapshot(), err
	}
	s.opts.Telemetry.Record(ctx, "console.page.fetch", map[string]any{
		"collection": code,
		"page":       q.Page,
	})
	return page.Snapshot(), nil
}

// Snapshot returns the current committed state without fetching.
func (s *Service) Snapshot(code string) (PageSnapshot, error) {
	page, ok := s.pages[code]
	if !ok {
		return PageSnapshot{}, fmt.Errorf("%w: %s", errUnknownCollection, code)
	}
	return page.Snapshot(), nil
}

// DispatchAction routes an intent to its page and records the audit trail
// on success.
func (s *Service) DispatchAction(ctx context.Context, code string, intent ActionIntent) (ActionResult, error) {
	page, ok := s.pages[code]
	if !ok {
		return ActionResult{}, fmt.Errorf("%w: %s", errUnknownCollection, code)
	}
	result, err := page.Dispatch(ctx, intent)
	if err != nil {
		return ActionResult{}, err
	}
	if s.opts.Activity != nil {
		def, _ := page.Descriptor().Action(intent.Kind)
		s.opts.Activity.ActionApplied(ctx, code, def, intent)
	}
	s.opts.Telemetry.Record(ctx, "console.action.dispatched", map[string]any{
		"collection": code,
		"kind":       intent.Kind,
		"target":     intent.TargetID,
	})
	return result, nil
}

// NotifyCollectionUpdated publishes a collection-changed event for
// mutations performed outside the console (imports, backoffice jobs).
func (s *Service) NotifyCollectionUpdated(ctx context.Context, event Event) error {
	if err := s.opts.Broadcast.Publish(ctx, event); err != nil {
		return err
	}
	s.opts.Telemetry.Record(ctx, "console.collection.event", map[string]any{
		"topic":      event.Topic,
		"collection": event.Collection,
		"action":     event.Action,
	})
	return nil
}

// Close tears down every registered page.
func (s *Service) Close() {
	for _, page := range s.pages {
		page.Close()
	}
}
