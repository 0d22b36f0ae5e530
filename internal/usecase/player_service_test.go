package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/lineup"
)

func newPlayerServiceWithData(t *testing.T, lineups []lineup.TeamLineup) *PlayerService {
	t.Helper()

	matches, _, eventRepo, lineupRepo := newMatchServiceWithMocks(t, nil)
	eventRepo.On("ListByMatch", mock.Anything, sampleMatchID).Return(sampleMatchEvents(), nil).Once()
	lineupRepo.On("ListByMatch", mock.Anything, sampleMatchID).Return(lineups, nil).Once()
	return NewPlayerService(matches)
}

func TestPlayerService_ListPlayers(t *testing.T) {
	t.Parallel()

	lineups := sampleMatchLineups()
	lineups[1].Players = append(lineups[1].Players, lineups[1].Players[0])
	service := newPlayerServiceWithData(t, lineups)

	got, err := service.ListPlayers(context.Background(), sampleMatchID)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected deduplicated players, got %d: %+v", len(got), got)
	}
	if got[0].TeamName != "Italy" || got[0].JerseyNumber != 4 || !got[0].Starter {
		t.Fatalf("unexpected ordering: %+v", got[0])
	}
	if got[3].Name != "Unused Keeper" || got[3].Starter {
		t.Fatalf("expected bench players last within team: %+v", got[3])
	}
}

func TestPlayerService_ListPlayers_FallsBackToEvents(t *testing.T) {
	t.Parallel()

	matches, _, eventRepo, lineupRepo := newMatchServiceWithMocks(t, nil)
	eventRepo.On("ListByMatch", mock.Anything, sampleMatchID).Return(sampleMatchEvents(), nil).Once()
	lineupRepo.On("ListByMatch", mock.Anything, sampleMatchID).Return(nil, ErrNotFound).Once()

	got, err := NewPlayerService(matches).ListPlayers(context.Background(), sampleMatchID)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected acting players from events, got %+v", got)
	}
}

func TestPlayerService_GetProfile(t *testing.T) {
	t.Parallel()

	service := newPlayerServiceWithData(t, sampleMatchLineups())

	got, err := service.GetProfile(context.Background(), sampleMatchID, 7024)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if got.Name != "Ciro Immobile" || got.TeamName != "Italy" || got.Position != "Center Forward" || got.JerseyNumber != 17 {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if got.Stats.Shots.Goals != 1 || got.Stats.MinutesPlayed != 81 {
		t.Fatalf("unexpected stats: %+v", got.Stats)
	}
}

func TestPlayerService_GetProfile_LineupOnlyPlayerHasZeroStats(t *testing.T) {
	t.Parallel()

	service := newPlayerServiceWithData(t, sampleMatchLineups())

	got, err := service.GetProfile(context.Background(), sampleMatchID, 9001)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if got.Stats.TotalEvents != 0 || got.Stats.MinutesPlayed != 0 || got.Stats.PlayerName != "Unused Keeper" {
		t.Fatalf("unexpected stats: %+v", got.Stats)
	}
}

func TestPlayerService_GetProfile_UnknownPlayer(t *testing.T) {
	t.Parallel()

	service := newPlayerServiceWithData(t, sampleMatchLineups())

	_, err := service.GetProfile(context.Background(), sampleMatchID, 424242)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlayerService_GetProfile_InvalidPlayer(t *testing.T) {
	t.Parallel()

	matches, _, _, _ := newMatchServiceWithMocks(t, nil)
	_, err := NewPlayerService(matches).GetProfile(context.Background(), sampleMatchID, 0)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
