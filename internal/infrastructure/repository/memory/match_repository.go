package memory

import (
	"context"
	"sync"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/match"
)

type MatchRepository struct {
	mu           sync.RWMutex
	competitions []match.Competition
	bySeason     map[seasonKey][]match.Match
}

type seasonKey struct {
	competitionID int64
	seasonID      int64
}

func NewMatchRepository(competitions []match.Competition, matches []match.Match) *MatchRepository {
	repo := &MatchRepository{
		competitions: append([]match.Competition(nil), competitions...),
		bySeason:     make(map[seasonKey][]match.Match),
	}
	for _, item := range matches {
		key := seasonKey{competitionID: item.CompetitionID, seasonID: item.SeasonID}
		repo.bySeason[key] = append(repo.bySeason[key], item)
	}
	return repo
}

func (r *MatchRepository) ListCompetitions(_ context.Context) ([]match.Competition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]match.Competition(nil), r.competitions...), nil
}

func (r *MatchRepository) ListBySeason(_ context.Context, competitionID, seasonID int64) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.bySeason[seasonKey{competitionID: competitionID, seasonID: seasonID}]
	return append([]match.Match(nil), items...), nil
}
