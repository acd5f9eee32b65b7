package console

import "strings"

// StatusCounts summarizes one committed page of rows by display status.
// Counts are derived from the same rows the snapshot carries, never fetched
// separately.
type StatusCounts struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status,omitempty"`
	Pending  int            `json:"pending,omitempty"`
	Revenue  float64        `json:"revenue,omitempty"`
}

func computeStats(rows []RowView) StatusCounts {
	stats := StatusCounts{Total: len(rows)}
	if len(rows) == 0 {
		return stats
	}
	stats.ByStatus = make(map[string]int, 4)
	for _, row := range rows {
		stats.ByStatus[normalizeStatusKey(row.DisplayStatus)]++
		stats.Revenue += row.Amount
		if row.ActionPending {
			stats.Pending++
		}
	}
	return stats
}

func normalizeStatusKey(status string) string {
	key := strings.ToLower(strings.TrimSpace(status))
	if key == "" {
		key = strings.ToLower(UnknownLabel)
	}
	return key
}
