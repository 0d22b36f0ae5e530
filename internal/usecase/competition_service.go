package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/match"
)

type CompetitionService struct {
	matchRepo match.Repository
}

func NewCompetitionService(matchRepo match.Repository) *CompetitionService {
	return &CompetitionService{matchRepo: matchRepo}
}

// ListCompetitions returns the catalog, optionally narrowed by a
// case-insensitive name fragment.
func (s *CompetitionService) ListCompetitions(ctx context.Context, query string) ([]match.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.ListCompetitions")
	defer span.End()

	items, err := s.matchRepo.ListCompetitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]match.Competition, 0, len(items))
	for _, item := range items {
		if query != "" && !strings.Contains(strings.ToLower(item.Name), query) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// ListMatches returns the matches of one competition season ordered by date.
func (s *CompetitionService) ListMatches(ctx context.Context, competitionID, seasonID int64) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.ListMatches")
	defer span.End()

	if competitionID <= 0 {
		return nil, invalidInput("competition id must be greater than zero")
	}
	if seasonID <= 0 {
		return nil, invalidInput("season id must be greater than zero")
	}

	items, err := s.matchRepo.ListBySeason(ctx, competitionID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list matches competition=%d season=%d: %w", competitionID, seasonID, err)
	}
	if len(items) == 0 {
		return nil, notFound("competition=%d season=%d", competitionID, seasonID)
	}

	items = append([]match.Match(nil), items...)
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.Before(items[j].Date)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}
