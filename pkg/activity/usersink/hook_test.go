package usersink

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-console/pkg/activity"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []types.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record types.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	userID := uuid.New()
	tenantID := uuid.New()
	objectID := uuid.New().String()

	event := activity.Event{
		Verb:           "booking.assign_vendor",
		ActorID:        actorID.String(),
		UserID:         userID.String(),
		TenantID:       tenantID.String(),
		ObjectType:     "admin.console.bookings",
		ObjectID:       objectID,
		Channel:        "console",
		DefinitionCode: "admin.console.bookings:booking.assign_vendor",
		Recipients:     []string{"ops@example.com"},
		Metadata: map[string]any{
			"policy": "patch",
		},
		OccurredAt: now,
	}

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID {
		t.Fatalf("expected actor %s got %s", actorID, record.ActorID)
	}
	if record.UserID != userID {
		t.Fatalf("expected user %s got %s", userID, record.UserID)
	}
	if record.TenantID != tenantID {
		t.Fatalf("expected tenant %s got %s", tenantID, record.TenantID)
	}
	if record.Verb != "booking.assign_vendor" || record.ObjectType != "admin.console.bookings" || record.ObjectID != objectID {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.Channel != "console" {
		t.Fatalf("expected channel console got %q", record.Channel)
	}
	if record.OccurredAt != now {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
	if record.Data["definition_code"] != "admin.console.bookings:booking.assign_vendor" {
		t.Fatalf("expected definition_code metadata got %v", record.Data["definition_code"])
	}
	if record.Data["policy"] != "patch" {
		t.Fatalf("expected policy metadata got %v", record.Data["policy"])
	}
	recipients, ok := record.Data["recipients"].([]string)
	if !ok || len(recipients) != 1 || recipients[0] != "ops@example.com" {
		t.Fatalf("expected recipients metadata got %v", record.Data["recipients"])
	}
}

func TestHookNotifySkipsMissingVerb(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink}

	_ = hook.Notify(context.Background(), activity.Event{})

	if len(sink.records) != 0 {
		t.Fatalf("expected no records for empty event, got %d", len(sink.records))
	}
}

func TestHookNotifyMalformedActorDegrades(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink}

	err := hook.Notify(context.Background(), activity.Event{
		Verb:       "vendor.update_status",
		ActorID:    "not-a-uuid",
		ObjectType: "admin.console.vendors",
		ObjectID:   "vnd-1",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected record despite malformed actor")
	}
	if sink.records[0].ActorID != uuid.Nil {
		t.Fatalf("expected uuid.Nil actor, got %s", sink.records[0].ActorID)
	}
}
