package playerstats

import (
	"testing"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/event"
)

func TestCompute(t *testing.T) {
	items := []event.Event{
		{Period: 1, Type: event.TypePass, PlayerID: 10, PlayerName: "Lorenzo Insigne", TeamName: "Italy"},
		{Period: 1, Type: event.TypePass, PlayerID: 10, Outcome: "Incomplete"},
		{Period: 1, Type: event.TypePass, PlayerID: 10, ShotAssist: true},
		{Period: 2, Type: event.TypePass, PlayerID: 10, GoalAssist: true},
		{Period: 2, Type: event.TypeShot, PlayerID: 10, Outcome: event.OutcomeGoal, ExpectedGoals: 0.0612},
		{Period: 2, Type: event.TypeShot, PlayerID: 10, Outcome: "Off T", ExpectedGoals: 0.1},
		{Period: 2, Type: event.TypeDuel, Subtype: event.SubtypeTackle, PlayerID: 10, Outcome: "Won"},
		{Period: 2, Type: event.TypeDuel, Subtype: event.SubtypeTackle, PlayerID: 10, Outcome: "Lost In Play"},
		{Period: 2, Type: event.TypeInterception, PlayerID: 10},
		{Period: 2, Type: event.TypeFoulCommitted, PlayerID: 10, CardType: event.CardYellow},
		{Period: 1, Type: event.TypePass, PlayerID: 11},
	}

	stats := Compute(items, 10)

	if stats.PlayerName != "Lorenzo Insigne" || stats.TeamName != "Italy" {
		t.Fatalf("unexpected identity: %+v", stats)
	}
	if stats.Passes.Total != 4 || stats.Passes.Successful != 3 || stats.Passes.Accuracy != 75 {
		t.Fatalf("unexpected passes: %+v", stats.Passes)
	}
	if stats.Passes.KeyPasses != 2 || stats.Assists != 1 {
		t.Fatalf("unexpected creation stats: key=%d assists=%d", stats.Passes.KeyPasses, stats.Assists)
	}
	if stats.Shots.Total != 2 || stats.Shots.OnTarget != 1 || stats.Shots.Goals != 1 {
		t.Fatalf("unexpected shots: %+v", stats.Shots)
	}
	if stats.Shots.ExpectedGoals != 0.16 {
		t.Fatalf("unexpected xg: %v", stats.Shots.ExpectedGoals)
	}
	if stats.Tackles.Total != 2 || stats.Tackles.Successful != 1 {
		t.Fatalf("unexpected tackles: %+v", stats.Tackles)
	}
	if stats.Interceptions != 1 || stats.Cards.Yellow != 1 || stats.Cards.Red != 0 {
		t.Fatalf("unexpected defensive stats: %+v", stats)
	}
	if stats.EventsFirstHalf != 3 || stats.EventsSecondHalf != 7 || stats.TotalEvents != 10 {
		t.Fatalf("unexpected event split: first=%d second=%d total=%d", stats.EventsFirstHalf, stats.EventsSecondHalf, stats.TotalEvents)
	}
}

func TestCompute_NoEvents(t *testing.T) {
	stats := Compute(nil, 10)
	if stats.Passes.Accuracy != 0 || stats.TotalEvents != 0 {
		t.Fatalf("expected empty stats, got %+v", stats)
	}
}

func TestPercentage(t *testing.T) {
	if got := Percentage(2, 3); got != 66.7 {
		t.Fatalf("unexpected percentage: %v", got)
	}
	if got := Percentage(1, 0); got != 0 {
		t.Fatalf("expected zero for empty total, got %v", got)
	}
}
