package teamstats

import (
	"testing"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/event"
)

func TestCompute(t *testing.T) {
	items := []event.Event{
		{Type: event.TypePass, TeamName: "Italy", PossessionTeam: "Italy"},
		{Type: event.TypePass, TeamName: "Italy", PossessionTeam: "Italy", Outcome: "Out"},
		{Type: event.TypeShot, TeamName: "Italy", PossessionTeam: "Italy", Outcome: event.OutcomeGoal, ExpectedGoals: 0.254},
		{Type: event.TypeShot, TeamName: "Turkey", PossessionTeam: "Turkey", Outcome: "Blocked"},
		{Type: event.TypeDuel, Subtype: event.SubtypeTackle, TeamName: "Turkey", PossessionTeam: "Italy"},
		{Type: event.TypeFoulCommitted, TeamName: "Turkey", PossessionTeam: "Italy", CardType: event.CardRed},
		{Type: event.TypeInterception, TeamName: "Italy", PossessionTeam: "Turkey"},
		{Type: event.TypeStartingXI, TeamName: "Italy"},
	}

	italy := Compute(items, "italy")
	if italy.Passes != 2 || italy.PassesCompleted != 1 || italy.PassAccuracy != 50 {
		t.Fatalf("unexpected passing: %+v", italy)
	}
	if italy.Shots != 1 || italy.ShotsOnTarget != 1 || italy.Goals != 1 || italy.ExpectedGoals != 0.25 {
		t.Fatalf("unexpected shooting: %+v", italy)
	}
	if italy.Interceptions != 1 || italy.Possession != 71.4 {
		t.Fatalf("unexpected interceptions/possession: %+v", italy)
	}

	turkey := Compute(items, "Turkey")
	if turkey.Tackles != 1 || turkey.Fouls != 1 || turkey.RedCards != 1 || turkey.Possession != 28.6 {
		t.Fatalf("unexpected turkey stats: %+v", turkey)
	}
}

func TestCompute_IgnoresShootoutKicks(t *testing.T) {
	items := []event.Event{
		{Type: event.TypeShot, Period: 2, TeamName: "Italy", Outcome: event.OutcomeGoal},
		{Type: event.TypeShot, Period: event.PeriodPenaltyShootout, TeamName: "Italy", Outcome: event.OutcomeGoal},
		{Type: event.TypeShot, Period: event.PeriodPenaltyShootout, TeamName: "Italy", Outcome: event.OutcomeSaved},
	}

	italy := Compute(items, "Italy")
	if italy.Shots != 1 || italy.ShotsOnTarget != 1 || italy.Goals != 1 {
		t.Fatalf("shootout kicks leaked into match stats: %+v", italy)
	}
}

func TestComputeAll(t *testing.T) {
	items := []event.Event{
		{Type: event.TypePass, TeamName: "Turkey"},
		{Type: event.TypePass, TeamName: "Italy"},
	}
	all := ComputeAll(items)
	if len(all) != 2 || all[0].TeamName != "Turkey" || all[1].TeamName != "Italy" {
		t.Fatalf("unexpected teams: %+v", all)
	}
}
