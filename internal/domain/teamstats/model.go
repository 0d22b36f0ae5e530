package teamstats

import (
	"strings"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/event"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/playerstats"
)

// Stats aggregates one team's actions in a match.
type Stats struct {
	TeamName        string
	Passes          int
	PassesCompleted int
	PassAccuracy    float64
	Shots           int
	ShotsOnTarget   int
	Goals           int
	ExpectedGoals   float64
	Tackles         int
	Interceptions   int
	Fouls           int
	YellowCards     int
	RedCards        int
	Possession      float64
}

// Compute counts the actions of team. Possession is the share of events
// played while team held the ball.
func Compute(items []event.Event, team string) Stats {
	out := Stats{TeamName: team}

	possessed, withPossession := 0, 0
	for _, item := range items {
		if item.PossessionTeam != "" {
			withPossession++
			if strings.EqualFold(item.PossessionTeam, team) {
				possessed++
			}
		}
		if !strings.EqualFold(item.TeamName, team) {
			continue
		}

		switch {
		case item.IsShootoutKick():
			// shootout kicks are not match shots
		case item.IsPass():
			out.Passes++
			if item.IsPassCompleted() {
				out.PassesCompleted++
			}
		case item.IsShot():
			out.Shots++
			out.ExpectedGoals += item.ExpectedGoals
			if item.IsShotOnTarget() {
				out.ShotsOnTarget++
			}
			if item.IsGoal() {
				out.Goals++
			}
		case item.IsTackle():
			out.Tackles++
		case item.IsInterception():
			out.Interceptions++
		case item.Type == event.TypeFoulCommitted:
			out.Fouls++
		}

		if item.IsYellowCard() {
			out.YellowCards++
		}
		if item.IsRedCard() {
			out.RedCards++
		}
	}

	out.PassAccuracy = playerstats.Percentage(out.PassesCompleted, out.Passes)
	out.Possession = playerstats.Percentage(possessed, withPossession)
	out.ExpectedGoals = float64(int(out.ExpectedGoals*100+0.5)) / 100
	return out
}

// ComputeAll returns stats for every team acting in the feed.
func ComputeAll(items []event.Event) []Stats {
	names := event.TeamNames(items)
	out := make([]Stats, 0, len(names))
	for _, name := range names {
		out = append(out, Compute(items, name))
	}
	return out
}
