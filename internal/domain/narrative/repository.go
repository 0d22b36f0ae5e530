package narrative

import "context"

// Repository archives generated narrations.
type Repository interface {
	Create(ctx context.Context, item Narration) error
	ListByMatch(ctx context.Context, matchID int64, limit int) ([]Narration, error)
}
