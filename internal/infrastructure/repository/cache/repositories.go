package cache

import (
	"context"
	"strconv"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/event"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/lineup"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/match"
	basecache "github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/cache"
)

// MatchRepository caches competitions and season match lists.
type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) ListCompetitions(ctx context.Context) ([]match.Competition, error) {
	v, err := r.cache.GetOrLoad(ctx, "competition:list", func(ctx context.Context) (any, error) {
		items, err := r.next.ListCompetitions(ctx)
		if err != nil {
			return nil, err
		}
		return append([]match.Competition(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Competition)
	return append([]match.Competition(nil), items...), nil
}

func (r *MatchRepository) ListBySeason(ctx context.Context, competitionID, seasonID int64) ([]match.Match, error) {
	key := "match:season:" + strconv.FormatInt(competitionID, 10) + ":" + strconv.FormatInt(seasonID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeason(ctx, competitionID, seasonID)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

type EventRepository struct {
	next  event.Repository
	cache *basecache.Store
}

func NewEventRepository(next event.Repository, cache *basecache.Store) *EventRepository {
	return &EventRepository{next: next, cache: cache}
}

func (r *EventRepository) ListByMatch(ctx context.Context, matchID int64) ([]event.Event, error) {
	key := "event:match:" + strconv.FormatInt(matchID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByMatch(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return append([]event.Event(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]event.Event)
	return append([]event.Event(nil), items...), nil
}

type LineupRepository struct {
	next  lineup.Repository
	cache *basecache.Store
}

func NewLineupRepository(next lineup.Repository, cache *basecache.Store) *LineupRepository {
	return &LineupRepository{next: next, cache: cache}
}

func (r *LineupRepository) ListByMatch(ctx context.Context, matchID int64) ([]lineup.TeamLineup, error) {
	key := "lineup:match:" + strconv.FormatInt(matchID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByMatch(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return cloneLineups(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]lineup.TeamLineup)
	return cloneLineups(items), nil
}

func cloneLineups(items []lineup.TeamLineup) []lineup.TeamLineup {
	out := make([]lineup.TeamLineup, 0, len(items))
	for _, item := range items {
		copied := item
		copied.Players = append([]lineup.Player(nil), item.Players...)
		out = append(out, copied)
	}
	return out
}
