package models

// SortMode selects the presentation order of a record listing.
type SortMode string

const (
	SortLatest       SortMode = "latest"
	SortOldest       SortMode = "oldest"
	SortAlphabetical SortMode = "alphabetical"
	SortAccuracyLow  SortMode = "accuracy_low"
	SortAccuracyHigh SortMode = "accuracy_high"
)

// ParseSortMode maps a query-string value to a SortMode, defaulting to
// newest-first.
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortOldest, SortAlphabetical, SortAccuracyLow, SortAccuracyHigh:
		return SortMode(s)
	default:
		return SortLatest
	}
}

// HistoryFilter narrows and orders a history listing.
type HistoryFilter struct {
	OwnerID string
	Topic   string // case-insensitive substring match
	Sort    SortMode
	Limit   int // <= 0 means unbounded
}
