package console

import "testing"

func bookingMatcher() Matcher[Booking] {
	return Matcher[Booking]{
		SearchFields: []FieldGetter[Booking]{
			func(b Booking) string { return b.Reference },
			func(b Booking) string { return b.CustomerName },
			func(b Booking) string { return b.Service },
		},
		Status:      func(b Booking) string { return b.Status },
		PaymentMode: func(b Booking) string { return b.Payment },
	}
}

func sampleBookings() []Booking {
	return []Booking{
		{ID: "b1", Reference: "BK-1001", CustomerName: "Asha Rao", Service: "AC Repair", Status: "pending", Payment: "cod"},
		{ID: "b2", Reference: "BK-1002", CustomerName: "Miguel Ortiz", Service: "Plumbing", Status: "Active", Payment: "online"},
		{ID: "b3", Reference: "BK-1003", CustomerName: "Priya Nair", Service: "Deep Clean", Status: "completed", Payment: "online"},
	}
}

func TestMatcherIdentityFilterMatchesEverything(t *testing.T) {
	matcher := bookingMatcher()
	items := sampleBookings()

	for _, f := range []FilterState{
		{},
		{Status: "all", Priority: "all", PaymentMode: "all"},
		{Status: "ALL", Search: "   "},
	} {
		got := matcher.Apply(items, f)
		if len(got) != len(items) {
			t.Fatalf("filter %+v: expected %d items, got %d", f, len(items), len(got))
		}
	}
}

func TestMatcherStatusIsCaseInsensitive(t *testing.T) {
	matcher := bookingMatcher()
	items := sampleBookings()

	got := matcher.Apply(items, FilterState{Status: "active"})
	if len(got) != 1 || got[0].ID != "b2" {
		t.Fatalf("expected only b2 (status Active), got %+v", got)
	}
}

func TestMatcherSearchSubstringAcrossFields(t *testing.T) {
	matcher := bookingMatcher()
	items := sampleBookings()

	got := matcher.Apply(items, FilterState{Search: "ortiz"})
	if len(got) != 1 || got[0].ID != "b2" {
		t.Fatalf("expected b2 for search ortiz, got %+v", got)
	}

	got = matcher.Apply(items, FilterState{Search: "bk-100"})
	if len(got) != 3 {
		t.Fatalf("expected all rows for reference prefix, got %d", len(got))
	}

	got = matcher.Apply(items, FilterState{Search: "no-such-row"})
	if len(got) != 0 {
		t.Fatalf("expected no rows, got %d", len(got))
	}
}

func TestMatcherCombinedFilters(t *testing.T) {
	matcher := bookingMatcher()
	items := sampleBookings()

	got := matcher.Apply(items, FilterState{Search: "priya", PaymentMode: "online"})
	if len(got) != 1 || got[0].ID != "b3" {
		t.Fatalf("expected b3, got %+v", got)
	}

	got = matcher.Apply(items, FilterState{Search: "priya", PaymentMode: "cod"})
	if len(got) != 0 {
		t.Fatalf("expected no rows when categories conflict, got %d", len(got))
	}
}

func TestMatcherMissingFieldsReadEmpty(t *testing.T) {
	matcher := Matcher[Booking]{
		SearchFields: []FieldGetter[Booking]{nil, func(b Booking) string { return b.CustomerName }},
	}
	items := []Booking{{ID: "b1", CustomerName: "Asha"}, {ID: "b2"}}

	got := matcher.Apply(items, FilterState{Search: "asha"})
	if len(got) != 1 || got[0].ID != "b1" {
		t.Fatalf("expected only b1 to match, got %+v", got)
	}
	// A categorical filter with no getter matches everything.
	got = matcher.Apply(items, FilterState{Priority: "high"})
	if len(got) != 2 {
		t.Fatalf("expected all rows without a priority getter, got %d", len(got))
	}
}

func TestMatcherApplyPreservesOrder(t *testing.T) {
	matcher := bookingMatcher()
	items := sampleBookings()

	got := matcher.Apply(items, FilterState{PaymentMode: "online"})
	if len(got) != 2 || got[0].ID != "b2" || got[1].ID != "b3" {
		t.Fatalf("expected b2 then b3, got %+v", got)
	}
}
