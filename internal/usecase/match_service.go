package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/event"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/lineup"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/match"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/playerstats"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/teamstats"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/logging"
)

const defaultMatchLength = 90

// CatalogEntry is one competition season searched when resolving a match id.
type CatalogEntry struct {
	CompetitionID int64
	SeasonID      int64
}

// MatchData is the raw view of a match: header, full event feed and lineups.
type MatchData struct {
	Match   match.Match
	Events  []event.Event
	Lineups []lineup.TeamLineup
}

type MatchSummary struct {
	Summary      match.Summary
	Teams        []teamstats.Stats
	EventCounts  map[event.Type]int
	TotalEvents  int
	MatchMinutes int
}

type EventList struct {
	MatchID int64
	Events  []event.Event
	Counts  map[event.Type]int
}

type LineupPlayer struct {
	Player        lineup.Player
	MinutesPlayed int
	Stats         *playerstats.Stats
}

type TeamLineupView struct {
	TeamID   int64
	TeamName string
	Players  []LineupPlayer
}

type MatchService struct {
	matchRepo  match.Repository
	eventRepo  event.Repository
	lineupRepo lineup.Repository
	catalog    []CatalogEntry
	logger     *logging.Logger
}

func NewMatchService(
	matchRepo match.Repository,
	eventRepo event.Repository,
	lineupRepo lineup.Repository,
	catalog []CatalogEntry,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		matchRepo:  matchRepo,
		eventRepo:  eventRepo,
		lineupRepo: lineupRepo,
		catalog:    append([]CatalogEntry(nil), catalog...),
		logger:     logger,
	}
}

func (s *MatchService) Catalog() []CatalogEntry {
	return append([]CatalogEntry(nil), s.catalog...)
}

// GetMatch resolves the header of matchID by searching the catalog seasons in
// parallel. Matches outside the catalog are rebuilt from their event feed.
func (s *MatchService) GetMatch(ctx context.Context, matchID int64) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatch", attribute.Int64("match.id", matchID))
	defer span.End()

	if matchID <= 0 {
		return match.Match{}, invalidInput("match id must be greater than zero")
	}

	found, ok, err := s.findInCatalog(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if ok {
		return found, nil
	}

	items, err := s.listEvents(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	return matchFromEvents(matchID, items), nil
}

// GetMatchData loads events and lineups concurrently.
func (s *MatchService) GetMatchData(ctx context.Context, matchID int64) (MatchData, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatchData", attribute.Int64("match.id", matchID))
	defer span.End()

	if matchID <= 0 {
		return MatchData{}, invalidInput("match id must be greater than zero")
	}

	var (
		items     []event.Event
		lineups   []lineup.TeamLineup
		eventErr  error
		lineupErr error
		header    match.Match
		found     bool
		headerErr error
	)

	var wg conc.WaitGroup
	wg.Go(func() { items, eventErr = s.listEvents(ctx, matchID) })
	wg.Go(func() { lineups, lineupErr = s.listLineups(ctx, matchID) })
	wg.Go(func() { header, found, headerErr = s.findInCatalog(ctx, matchID) })
	wg.Wait()

	if eventErr != nil {
		return MatchData{}, eventErr
	}
	if lineupErr != nil {
		if !errors.Is(lineupErr, ErrNotFound) {
			return MatchData{}, lineupErr
		}
		s.logger.WarnContext(ctx, "lineups missing for match", "match_id", matchID)
	}
	if headerErr != nil {
		return MatchData{}, headerErr
	}
	if !found {
		header = matchFromEvents(matchID, items)
	}

	return MatchData{Match: header, Events: items, Lineups: lineups}, nil
}

// GetSummary builds key events and team numbers of a match.
func (s *MatchService) GetSummary(ctx context.Context, matchID int64) (MatchSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetSummary", attribute.Int64("match.id", matchID))
	defer span.End()

	if matchID <= 0 {
		return MatchSummary{}, invalidInput("match id must be greater than zero")
	}

	header, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return MatchSummary{}, err
	}
	items, err := s.listEvents(ctx, matchID)
	if err != nil {
		return MatchSummary{}, err
	}

	return summarize(header, items), nil
}

func (s *MatchService) ListEvents(ctx context.Context, matchID int64, filter event.Filter) (EventList, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListEvents", attribute.Int64("match.id", matchID))
	defer span.End()

	if matchID <= 0 {
		return EventList{}, invalidInput("match id must be greater than zero")
	}
	if filter.PlayerID < 0 {
		return EventList{}, invalidInput("player id must be greater than zero")
	}

	items, err := s.listEvents(ctx, matchID)
	if err != nil {
		return EventList{}, err
	}

	filtered := event.Apply(items, filter)
	return EventList{
		MatchID: matchID,
		Events:  filtered,
		Counts:  event.CountByType(filtered),
	}, nil
}

// ListLineups returns the lineups of a match, optionally restricted to one
// team and enriched with per-player statistics.
func (s *MatchService) ListLineups(ctx context.Context, matchID int64, team string, includeStats bool) ([]TeamLineupView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListLineups", attribute.Int64("match.id", matchID))
	defer span.End()

	if matchID <= 0 {
		return nil, invalidInput("match id must be greater than zero")
	}

	lineups, err := s.listLineups(ctx, matchID)
	if err != nil {
		return nil, err
	}

	var items []event.Event
	matchEnd := defaultMatchLength
	if includeStats {
		items, err = s.listEvents(ctx, matchID)
		if err != nil {
			return nil, err
		}
		matchEnd = matchLength(items)
	}

	team = strings.TrimSpace(team)
	out := make([]TeamLineupView, 0, len(lineups))
	for _, teamLineup := range lineups {
		if team != "" && !strings.EqualFold(teamLineup.TeamName, team) {
			continue
		}
		view := TeamLineupView{
			TeamID:   teamLineup.TeamID,
			TeamName: teamLineup.TeamName,
			Players:  make([]LineupPlayer, 0, len(teamLineup.Players)),
		}
		for _, item := range teamLineup.Players {
			row := LineupPlayer{Player: item, MinutesPlayed: item.MinutesPlayed(matchEnd)}
			if includeStats {
				stats := playerstats.Compute(items, item.ID)
				stats.MinutesPlayed = row.MinutesPlayed
				if stats.PlayerName == "" {
					stats.PlayerName = item.Name
					stats.TeamName = teamLineup.TeamName
				}
				row.Stats = &stats
			}
			view.Players = append(view.Players, row)
		}
		out = append(out, view)
	}

	if team != "" && len(out) == 0 {
		return nil, notFound("team=%s match=%d", team, matchID)
	}
	return out, nil
}

func (s *MatchService) listEvents(ctx context.Context, matchID int64) ([]event.Event, error) {
	items, err := s.eventRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list events match=%d: %w", matchID, err)
	}
	if len(items) == 0 {
		return nil, notFound("match=%d", matchID)
	}
	return items, nil
}

func (s *MatchService) listLineups(ctx context.Context, matchID int64) ([]lineup.TeamLineup, error) {
	lineups, err := s.lineupRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list lineups match=%d: %w", matchID, err)
	}
	if len(lineups) == 0 {
		return nil, notFound("lineups match=%d", matchID)
	}
	return lineups, nil
}

// findInCatalog stops at the first season containing matchID. A season that
// fails to load is logged and skipped.
func (s *MatchService) findInCatalog(ctx context.Context, matchID int64) (match.Match, bool, error) {
	if len(s.catalog) == 0 {
		return match.Match{}, false, nil
	}

	p := pool.NewWithResults[match.Match]().
		WithContext(ctx).
		WithMaxGoroutines(4)
	for _, entry := range s.catalog {
		p.Go(func(ctx context.Context) (match.Match, error) {
			matches, err := s.matchRepo.ListBySeason(ctx, entry.CompetitionID, entry.SeasonID)
			if err != nil {
				if ctx.Err() == nil {
					s.logger.WarnContext(ctx, "list catalog season failed",
						"competition_id", entry.CompetitionID,
						"season_id", entry.SeasonID,
						"error", err,
					)
				}
				return match.Match{}, nil
			}
			for _, item := range matches {
				if item.ID == matchID {
					return item, nil
				}
			}
			return match.Match{}, nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		return match.Match{}, false, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return match.Match{}, false, ctxErr
	}
	for _, item := range results {
		if item.ID == matchID {
			return item, true, nil
		}
	}
	return match.Match{}, false, nil
}

func summarize(header match.Match, items []event.Event) MatchSummary {
	return MatchSummary{
		Summary:      match.Summarize(header, items),
		Teams:        teamstats.ComputeAll(items),
		EventCounts:  event.CountByType(items),
		TotalEvents:  len(items),
		MatchMinutes: matchLength(items),
	}
}

// matchFromEvents rebuilds a header from the feed. The first Starting XI
// event belongs to the home side.
func matchFromEvents(matchID int64, items []event.Event) match.Match {
	out := match.Match{ID: matchID}

	starting := make([]event.Event, 0, 2)
	for _, item := range items {
		if item.Type == event.TypeStartingXI {
			starting = append(starting, item)
		}
	}
	sort.SliceStable(starting, func(i, j int) bool { return starting[i].Index < starting[j].Index })

	switch {
	case len(starting) >= 2:
		out.HomeTeamID, out.HomeTeam = starting[0].TeamID, starting[0].TeamName
		out.AwayTeamID, out.AwayTeam = starting[1].TeamID, starting[1].TeamName
	default:
		names := event.TeamNames(items)
		if len(names) > 0 {
			out.HomeTeam = names[0]
		}
		if len(names) > 1 {
			out.AwayTeam = names[1]
		}
	}
	return out
}

// matchLength is the last minute seen in the feed, at least regulation time.
func matchLength(items []event.Event) int {
	last := defaultMatchLength
	for _, item := range items {
		if item.Minute > last {
			last = item.Minute
		}
	}
	return last
}
