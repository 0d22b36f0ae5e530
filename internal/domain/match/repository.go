package match

import "context"

// Repository exposes the competition catalog and its matches.
type Repository interface {
	ListCompetitions(ctx context.Context) ([]Competition, error)
	ListBySeason(ctx context.Context, competitionID, seasonID int64) ([]Match, error)
}
