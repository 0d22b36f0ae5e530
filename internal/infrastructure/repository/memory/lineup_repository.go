package memory

import (
	"context"
	"sync"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/lineup"
)

type LineupRepository struct {
	mu    sync.RWMutex
	items map[int64][]lineup.TeamLineup
}

func NewLineupRepository(items map[int64][]lineup.TeamLineup) *LineupRepository {
	repo := &LineupRepository{items: make(map[int64][]lineup.TeamLineup, len(items))}
	for matchID, lineups := range items {
		repo.items[matchID] = cloneLineups(lineups)
	}
	return repo
}

func (r *LineupRepository) ListByMatch(_ context.Context, matchID int64) ([]lineup.TeamLineup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneLineups(r.items[matchID]), nil
}

func cloneLineups(items []lineup.TeamLineup) []lineup.TeamLineup {
	if items == nil {
		return nil
	}
	out := make([]lineup.TeamLineup, 0, len(items))
	for _, item := range items {
		copied := item
		copied.Players = append([]lineup.Player(nil), item.Players...)
		out = append(out, copied)
	}
	return out
}
