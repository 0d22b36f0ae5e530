package statsbomb

import (
	"context"
	"fmt"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/event"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/lineup"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/match"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/usecase"
)

// MatchRepository serves the competition catalog from the open-data feed.
type MatchRepository struct {
	client *Client
}

func NewMatchRepository(client *Client) *MatchRepository {
	return &MatchRepository{client: client}
}

func (r *MatchRepository) ListCompetitions(ctx context.Context) ([]match.Competition, error) {
	records, err := r.client.FetchCompetitions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]match.Competition, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) ListBySeason(ctx context.Context, competitionID, seasonID int64) ([]match.Match, error) {
	records, err := r.client.FetchMatches(ctx, competitionID, seasonID)
	if err != nil {
		return nil, err
	}
	out := make([]match.Match, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}

type EventRepository struct {
	client *Client
}

func NewEventRepository(client *Client) *EventRepository {
	return &EventRepository{client: client}
}

// ListByMatch returns the events of a match in chronological order.
func (r *EventRepository) ListByMatch(ctx context.Context, matchID int64) ([]event.Event, error) {
	records, err := r.client.FetchEvents(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: events match_id=%d", usecase.ErrNotFound, matchID)
	}
	out := make([]event.Event, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	event.SortChronologically(out)
	return out, nil
}

type LineupRepository struct {
	client *Client
}

func NewLineupRepository(client *Client) *LineupRepository {
	return &LineupRepository{client: client}
}

func (r *LineupRepository) ListByMatch(ctx context.Context, matchID int64) ([]lineup.TeamLineup, error) {
	records, err := r.client.FetchLineups(ctx, matchID)
	if err != nil {
		return nil, err
	}
	out := make([]lineup.TeamLineup, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}
