package domain

// MatchedBy tags which matcher produced a search hit.
type MatchedBy string

const (
	MatchedByNear  MatchedBy = "NEAR"
	MatchedByAlong MatchedBy = "ALONG"
	MatchedByBoth  MatchedBy = "BOTH"
)

// TripMatch is an ephemeral search result. It is produced per search
// request and never persisted.
type TripMatch struct {
	TripID    string
	Score     float64
	MatchedBy MatchedBy
}

// Rank orders tags for result sorting: BOTH > ALONG > NEAR.
func (m MatchedBy) Rank() int {
	switch m {
	case MatchedByBoth:
		return 3
	case MatchedByAlong:
		return 2
	default:
		return 1
	}
}
