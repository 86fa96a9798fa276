package domain

import "time"

// QueryHistoryEntry records a single compile/execute round trip.
type QueryHistoryEntry struct {
	ID            int64
	RequestID     string
	Intent        string
	CacheKey      string
	QueryText     string
	EstimatedCost float64
	Status        string
	ErrorMessage  *string
	DurationMs    int64
	RowsReturned  *int64
	CacheHit      bool
	CreatedAt     time.Time
}

// Query history status values.
const (
	HistoryStatusOK      = "OK"
	HistoryStatusInvalid = "INVALID"
	HistoryStatusError   = "ERROR"
)

// QueryHistoryFilter holds filter parameters for listing query history.
type QueryHistoryFilter struct {
	Intent *string
	Status *string
	Limit  int
	Offset int
}
