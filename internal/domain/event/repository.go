package event

import "context"

// Repository exposes the event feed of a match.
type Repository interface {
	ListByMatch(ctx context.Context, matchID int64) ([]Event, error)
}
