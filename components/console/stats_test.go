package console

import "testing"

func TestComputeStats(t *testing.T) {
	rows := []RowView{
		{ID: "1", DisplayStatus: "Pending", Amount: 240},
		{ID: "2", DisplayStatus: "pending", ActionPending: true},
		{ID: "3", DisplayStatus: "confirmed", Amount: 120.5},
		{ID: "4", DisplayStatus: ""},
	}

	stats := computeStats(rows)
	if stats.Total != 4 {
		t.Fatalf("expected total 4, got %d", stats.Total)
	}
	if stats.ByStatus["pending"] != 2 {
		t.Fatalf("status counting must be case-insensitive, got %+v", stats.ByStatus)
	}
	if stats.ByStatus["confirmed"] != 1 {
		t.Fatalf("unexpected breakdown: %+v", stats.ByStatus)
	}
	if stats.ByStatus["unknown"] != 1 {
		t.Fatalf("empty statuses must count as unknown, got %+v", stats.ByStatus)
	}
	if stats.Pending != 1 {
		t.Fatalf("expected 1 pending action, got %d", stats.Pending)
	}
	if stats.Revenue != 360.5 {
		t.Fatalf("expected revenue 360.5, got %v", stats.Revenue)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := computeStats(nil)
	if stats.Total != 0 || stats.ByStatus != nil {
		t.Fatalf("unexpected stats for empty rows: %+v", stats)
	}
}
