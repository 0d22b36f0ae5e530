package memory

import (
	"context"
	"testing"
	"time"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/event"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/lineup"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/match"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/narrative"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/playerstats"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/teamstats"
)

func TestSeed_IsConsistentWithScoreline(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	events := NewEventRepository(map[int64][]event.Event{SampleMatchID: SeedEvents()})
	matches := NewMatchRepository(SeedCompetitions(), SeedMatches())

	items, err := events.ListByMatch(ctx, SampleMatchID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	seasonMatches, err := matches.ListBySeason(ctx, SampleCompetitionID, SampleSeasonID)
	if err != nil || len(seasonMatches) != 1 {
		t.Fatalf("list matches: %v %v", seasonMatches, err)
	}

	summary := match.Summarize(seasonMatches[0], items)
	if summary.Match.Score() != "0-3" || len(summary.Goals) != 3 {
		t.Fatalf("unexpected summary: score=%s goals=%+v", summary.Match.Score(), summary.Goals)
	}
	if summary.Goals[0].Team != teamItaly || !summary.Goals[0].OwnGoal {
		t.Fatalf("expected own goal credited to Italy: %+v", summary.Goals[0])
	}
	if summary.Goals[2].Scorer != "Lorenzo Insigne" || summary.Goals[2].Assist != "Ciro Immobile" {
		t.Fatalf("unexpected third goal: %+v", summary.Goals[2])
	}
	if len(summary.Substitutions) != 5 {
		t.Fatalf("unexpected substitutions: %+v", summary.Substitutions)
	}

	italy := teamstats.Compute(items, teamItaly)
	if italy.Goals != 2 || italy.Shots != 7 {
		t.Fatalf("unexpected Italy stats: %+v", italy)
	}

	immobile := playerstats.Compute(items, 7024)
	if immobile.Shots.Goals != 1 || immobile.Assists != 1 {
		t.Fatalf("unexpected Immobile stats: %+v", immobile)
	}
}

func TestSeed_LineupsMatchSubstitutions(t *testing.T) {
	t.Parallel()

	repo := NewLineupRepository(map[int64][]lineup.TeamLineup{SampleMatchID: SeedLineups()})
	items, err := repo.ListByMatch(context.Background(), SampleMatchID)
	if err != nil {
		t.Fatalf("list lineups: %v", err)
	}
	if len(items) != 2 || len(items[0].Players) != 13 || len(items[1].Players) != 14 {
		t.Fatalf("unexpected lineups: %d", len(items))
	}

	for _, player := range items[1].Players {
		switch player.ID {
		case 7024:
			if player.MinutesPlayed(94) != 81 {
				t.Fatalf("unexpected minutes for Immobile: %d", player.MinutesPlayed(94))
			}
		case 7067:
			if player.Starter() || player.MinutesPlayed(94) != 13 {
				t.Fatalf("unexpected Belotti lineup: %+v", player)
			}
		}
	}

	items[0].Players[0].Name = "mutated"
	again, _ := repo.ListByMatch(context.Background(), SampleMatchID)
	if again[0].Players[0].Name == "mutated" {
		t.Fatalf("lineups must be isolated from callers")
	}
}

func TestNarrationRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewNarrationRepository(2)
	base := time.Date(2021, 6, 11, 21, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		err := repo.Create(ctx, narrative.Narration{ID: id, MatchID: SampleMatchID, GeneratedAt: base.Add(time.Duration(i) * time.Minute)})
		if err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	if err := repo.Create(ctx, narrative.Narration{MatchID: SampleMatchID}); err == nil {
		t.Fatalf("expected error for missing id")
	}

	items, err := repo.ListByMatch(ctx, SampleMatchID, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != "c" || items[1].ID != "b" {
		t.Fatalf("unexpected narrations: %+v", items)
	}

	items, _ = repo.ListByMatch(ctx, SampleMatchID, 1)
	if len(items) != 1 || items[0].ID != "c" {
		t.Fatalf("unexpected limited narrations: %+v", items)
	}
}
