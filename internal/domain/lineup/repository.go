package lineup

import "context"

// Repository exposes the lineups of a match.
type Repository interface {
	ListByMatch(ctx context.Context, matchID int64) ([]TeamLineup, error)
}
