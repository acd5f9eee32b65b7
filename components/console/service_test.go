package console

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type bookingFetcher struct {
	mu    sync.Mutex
	calls int
	items []Booking
	err   error
}

func (f *bookingFetcher) FetchPage(context.Context, string, Query) (PageResult[Booking], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return PageResult[Booking]{}, f.err
	}
	items := make([]Booking, len(f.items))
	copy(items, f.items)
	return PageResult[Booking]{Items: items}, nil
}

func (f *bookingFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordingActivity struct {
	collection string
	def        ActionDefinition
	intent     ActionIntent
	calls      int
}

func (r *recordingActivity) ActionApplied(_ context.Context, collection string, def ActionDefinition, intent ActionIntent) {
	r.calls++
	r.collection = collection
	r.def = def
	r.intent = intent
}

func bookingsDescriptor() Descriptor {
	return Descriptor{
		Code:     "admin.console.bookings",
		Name:     "Bookings",
		Topic:    "bookings-updated",
		ListPath: "/admin/bookings",
		Badges:   map[string]string{"pending": "warning", "confirmed": "success"},
		Actions: []ActionDefinition{
			{
				Kind:     "booking.update_status",
				Method:   "PATCH",
				Path:     "/admin/bookings/:id/status",
				Policy:   ApplyPolicyPatch,
				Topic:    "bookings-updated",
				Required: []string{"status"},
			},
			{
				Kind:   "booking.archive",
				Method: "POST",
				Path:   "/admin/bookings/:id/archive",
				Policy: ApplyPolicyRefetch,
			},
		},
	}
}

func newBookingsTestPage(fetcher *bookingFetcher, mutator Mutator, broadcast *Broadcast) *Page[Booking] {
	return NewPage(PageConfig[Booking]{
		Descriptor: bookingsDescriptor(),
		Fetcher:    fetcher,
		Mutator:    mutator,
		Matcher:    bookingMatcher(),
		Broadcast:  broadcast,
		Patch: func(item *Booking, _ ActionDefinition, payload, data map[string]any) {
			if s, ok := data["status"].(string); ok && s != "" {
				item.Status = s
				return
			}
			if s, ok := payload["status"].(string); ok {
				item.Status = s
			}
		},
	})
}

func TestPageSnapshotFiltersAndStats(t *testing.T) {
	fetcher := &bookingFetcher{items: sampleBookings()}
	page := newBookingsTestPage(fetcher, nil, nil)

	if err := page.Fetch(context.Background(), Query{Filter: FilterState{PaymentMode: "online"}}); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	snapshot := page.Snapshot()
	if snapshot.Collection != "admin.console.bookings" {
		t.Fatalf("unexpected collection: %s", snapshot.Collection)
	}
	if snapshot.Phase != "ready" {
		t.Fatalf("expected ready phase, got %s", snapshot.Phase)
	}
	if len(snapshot.Rows) != 2 {
		t.Fatalf("expected the filter to keep 2 rows, got %d", len(snapshot.Rows))
	}
	if snapshot.Stats.Total != 2 {
		t.Fatalf("stats must derive from visible rows, got %+v", snapshot.Stats)
	}
	if snapshot.Stats.ByStatus["active"] != 1 || snapshot.Stats.ByStatus["completed"] != 1 {
		t.Fatalf("unexpected status breakdown: %+v", snapshot.Stats.ByStatus)
	}
}

func TestPageSnapshotBadges(t *testing.T) {
	fetcher := &bookingFetcher{items: sampleBookings()}
	page := newBookingsTestPage(fetcher, nil, nil)

	if err := page.Fetch(context.Background(), Query{}); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	snapshot := page.Snapshot()
	for _, row := range snapshot.Rows {
		if row.ID == "b1" && row.Badge != "warning" {
			t.Fatalf("pending booking should carry warning badge, got %q", row.Badge)
		}
		if row.ID == "b3" && row.Badge != "neutral" {
			t.Fatalf("unmapped status should fall back to neutral, got %q", row.Badge)
		}
		if row.DisplayName == "" {
			t.Fatalf("row %s missing display name", row.ID)
		}
	}
}

func TestPageDispatchPatchPolicy(t *testing.T) {
	fetcher := &bookingFetcher{items: sampleBookings()}
	mutator := &fakeMutator{data: map[string]any{"status": "confirmed"}}
	broadcast := NewBroadcast()
	page := newBookingsTestPage(fetcher, mutator, broadcast)

	events, cancel := broadcast.Subscribe("bookings-updated")
	defer cancel()

	if err := page.Fetch(context.Background(), Query{}); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	intent := NewActionIntent("booking.update_status", "b1", map[string]any{"status": "confirmed"})
	result, err := page.Dispatch(context.Background(), intent)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if result.Applied != string(ApplyPolicyPatch) {
		t.Fatalf("expected patch policy, got %s", result.Applied)
	}
	if fetcher.callCount() != 1 {
		t.Fatalf("patch policy must not refetch, got %d fetches", fetcher.callCount())
	}

	snapshot := page.Snapshot()
	for _, row := range snapshot.Rows {
		if row.ID == "b1" && row.DisplayStatus != "confirmed" {
			t.Fatalf("expected patched status, got %q", row.DisplayStatus)
		}
	}

	select {
	case event := <-events:
		if event.ItemID != "b1" || event.Action != "booking.update_status" {
			t.Fatalf("unexpected broadcast event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatalf("action with a topic must publish an event")
	}
}

func TestPageDispatchRefetchPolicy(t *testing.T) {
	fetcher := &bookingFetcher{items: sampleBookings()}
	mutator := &fakeMutator{}
	page := newBookingsTestPage(fetcher, mutator, nil)

	if err := page.Fetch(context.Background(), Query{}); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	result, err := page.Dispatch(context.Background(), NewActionIntent("booking.archive", "b2", nil))
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if result.Applied != string(ApplyPolicyRefetch) {
		t.Fatalf("expected refetch policy, got %s", result.Applied)
	}
	if fetcher.callCount() != 2 {
		t.Fatalf("refetch policy must re-run the last query, got %d fetches", fetcher.callCount())
	}
}

func TestPageDispatchUnknownAction(t *testing.T) {
	page := newBookingsTestPage(&bookingFetcher{}, &fakeMutator{}, nil)
	if _, err := page.Dispatch(context.Background(), NewActionIntent("booking.delete", "b1", nil)); err == nil {
		t.Fatalf("expected error for undeclared action")
	}
}

func TestPageDispatchFailureLeavesStoreUntouched(t *testing.T) {
	fetcher := &bookingFetcher{items: sampleBookings()}
	mutator := &fakeMutator{err: &ServerError{Status: 409, Message: "already archived"}}
	page := newBookingsTestPage(fetcher, mutator, nil)

	if err := page.Fetch(context.Background(), Query{}); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	before := page.Snapshot()

	_, err := page.Dispatch(context.Background(), NewActionIntent("booking.archive", "b2", nil))
	var serr *ServerError
	if !errors.As(err, &serr) {
		t.Fatalf("expected server error, got %v", err)
	}
	if fetcher.callCount() != 1 {
		t.Fatalf("failed dispatch must not refetch")
	}
	after := page.Snapshot()
	if len(after.Rows) != len(before.Rows) || after.Phase != before.Phase {
		t.Fatalf("failed dispatch must not change committed state")
	}
}

func TestPageListenRefetchesOnSiblingEvents(t *testing.T) {
	fetcher := &bookingFetcher{items: sampleBookings()}
	broadcast := NewBroadcast()
	page := newBookingsTestPage(fetcher, nil, broadcast)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := page.Fetch(ctx, Query{}); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	stop := page.Listen(ctx, "payments-updated")
	defer stop()

	_ = broadcast.Publish(ctx, Event{Topic: "payments-updated"})
	deadline := time.Now().Add(time.Second)
	for fetcher.callCount() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("extra topic event did not trigger a refetch")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestServiceRegisterAndFetch(t *testing.T) {
	service := NewService(Options{})
	fetcher := &bookingFetcher{items: sampleBookings()}
	page := newBookingsTestPage(fetcher, nil, service.Broadcast())

	if err := service.RegisterPage(page); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := service.RegisterPage(page); err == nil {
		t.Fatalf("duplicate registration must fail")
	}
	if err := service.RegisterPage(nil); err == nil {
		t.Fatalf("nil page must fail")
	}

	snapshot, err := service.FetchPage(context.Background(), "admin.console.bookings", Query{})
	if err != nil {
		t.Fatalf("fetch page: %v", err)
	}
	if len(snapshot.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(snapshot.Rows))
	}

	if _, err := service.FetchPage(context.Background(), "admin.console.nope", Query{}); err == nil {
		t.Fatalf("unknown collection must fail")
	}
	if _, err := service.Snapshot("admin.console.nope"); err == nil {
		t.Fatalf("unknown collection snapshot must fail")
	}
	if len(service.Pages()) != 1 {
		t.Fatalf("expected one registered page")
	}
}

func TestServiceDispatchNotifiesActivity(t *testing.T) {
	hook := &recordingActivity{}
	service := NewService(Options{Activity: hook})
	fetcher := &bookingFetcher{items: sampleBookings()}
	mutator := &fakeMutator{data: map[string]any{"status": "confirmed"}}
	page := newBookingsTestPage(fetcher, mutator, service.Broadcast())
	if err := service.RegisterPage(page); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := service.FetchPage(context.Background(), "admin.console.bookings", Query{}); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	intent := NewActionIntent("booking.update_status", "b1", map[string]any{"status": "confirmed"})
	if _, err := service.DispatchAction(context.Background(), "admin.console.bookings", intent); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if hook.calls != 1 {
		t.Fatalf("expected one activity notification, got %d", hook.calls)
	}
	if hook.collection != "admin.console.bookings" || hook.def.Kind != "booking.update_status" || hook.intent.TargetID != "b1" {
		t.Fatalf("unexpected activity payload: %s %s %s", hook.collection, hook.def.Kind, hook.intent.TargetID)
	}

	// Rejected dispatches leave no audit trail.
	mutator.err = &ServerError{Status: 422, Message: "nope"}
	if _, err := service.DispatchAction(context.Background(), "admin.console.bookings", intent); err == nil {
		t.Fatalf("expected dispatch failure")
	}
	if hook.calls != 1 {
		t.Fatalf("failed dispatch must not notify activity")
	}
}

func TestServiceNotifyCollectionUpdated(t *testing.T) {
	service := NewService(Options{})
	events, cancel := service.Broadcast().Subscribe("bookings-updated")
	defer cancel()

	err := service.NotifyCollectionUpdated(context.Background(), Event{
		Topic:      "bookings-updated",
		Collection: "admin.console.bookings",
		Action:     "import",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	select {
	case event := <-events:
		if event.Action != "import" {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatalf("notification was not published")
	}
}
