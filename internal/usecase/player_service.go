package usecase

import (
	"context"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/event"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/lineup"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/match"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/playerstats"
)

// matchDataReader is the slice of MatchService the player views depend on.
type matchDataReader interface {
	GetMatchData(ctx context.Context, matchID int64) (MatchData, error)
}

type PlayerSummary struct {
	ID           int64
	Name         string
	Nickname     string
	TeamName     string
	JerseyNumber int
	Position     string
	Country      string
	Starter      bool
}

type PlayerProfile struct {
	Match        match.Match
	PlayerID     int64
	Name         string
	Nickname     string
	TeamName     string
	JerseyNumber int
	Position     string
	Country      string
	Starter      bool
	Stats        playerstats.Stats
}

type PlayerService struct {
	matches matchDataReader
}

func NewPlayerService(matches matchDataReader) *PlayerService {
	return &PlayerService{matches: matches}
}

// ListPlayers merges both lineups, one row per player id. Without lineups the
// acting players of the event feed are listed instead.
func (s *PlayerService) ListPlayers(ctx context.Context, matchID int64) ([]PlayerSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListPlayers", attribute.Int64("match.id", matchID))
	defer span.End()

	data, err := s.matches.GetMatchData(ctx, matchID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, 64)
	out := make([]PlayerSummary, 0, 46)
	for _, team := range data.Lineups {
		for _, item := range team.Players {
			if item.ID <= 0 {
				continue
			}
			if _, ok := seen[item.ID]; ok {
				continue
			}
			seen[item.ID] = struct{}{}
			out = append(out, summaryFromLineup(item, team.TeamName))
		}
	}
	for _, item := range data.Events {
		if item.PlayerID <= 0 {
			continue
		}
		if _, ok := seen[item.PlayerID]; ok {
			continue
		}
		seen[item.PlayerID] = struct{}{}
		out = append(out, PlayerSummary{
			ID:       item.PlayerID,
			Name:     item.PlayerName,
			TeamName: item.TeamName,
			Position: item.Position,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TeamName != out[j].TeamName {
			return out[i].TeamName < out[j].TeamName
		}
		if out[i].Starter != out[j].Starter {
			return out[i].Starter
		}
		if out[i].JerseyNumber != out[j].JerseyNumber {
			return out[i].JerseyNumber < out[j].JerseyNumber
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetProfile computes the statistics of one player. A player listed in a
// lineup without any event gets zero statistics; an unknown player is not found.
func (s *PlayerService) GetProfile(ctx context.Context, matchID, playerID int64) (PlayerProfile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetProfile",
		attribute.Int64("match.id", matchID),
		attribute.Int64("player.id", playerID),
	)
	defer span.End()

	if playerID <= 0 {
		return PlayerProfile{}, invalidInput("player id must be greater than zero")
	}

	data, err := s.matches.GetMatchData(ctx, matchID)
	if err != nil {
		return PlayerProfile{}, err
	}

	stats := playerstats.Compute(data.Events, playerID)
	item, team, inLineup := lineup.FindPlayer(data.Lineups, playerID)
	if !inLineup && stats.TotalEvents == 0 {
		return PlayerProfile{}, notFound("player=%d match=%d", playerID, matchID)
	}

	profile := PlayerProfile{
		Match:    data.Match,
		PlayerID: playerID,
		Name:     stats.PlayerName,
		TeamName: stats.TeamName,
		Stats:    stats,
	}
	if inLineup {
		summary := summaryFromLineup(item, team.TeamName)
		profile.Name = summary.Name
		profile.Nickname = summary.Nickname
		profile.TeamName = summary.TeamName
		profile.JerseyNumber = summary.JerseyNumber
		profile.Position = summary.Position
		profile.Country = summary.Country
		profile.Starter = summary.Starter
		profile.Stats.MinutesPlayed = item.MinutesPlayed(matchLength(data.Events))
		if profile.Stats.PlayerName == "" {
			profile.Stats.PlayerName = item.Name
			profile.Stats.TeamName = team.TeamName
		}
	} else {
		profile.Position = firstPosition(data.Events, playerID)
	}

	return profile, nil
}

func summaryFromLineup(item lineup.Player, teamName string) PlayerSummary {
	return PlayerSummary{
		ID:           item.ID,
		Name:         item.Name,
		Nickname:     strings.TrimSpace(item.Nickname),
		TeamName:     teamName,
		JerseyNumber: item.JerseyNumber,
		Position:     item.PrimaryPosition(),
		Country:      item.Country,
		Starter:      item.Starter(),
	}
}

func firstPosition(items []event.Event, playerID int64) string {
	for _, item := range items {
		if item.PlayerID == playerID && item.Position != "" {
			return item.Position
		}
	}
	return ""
}
