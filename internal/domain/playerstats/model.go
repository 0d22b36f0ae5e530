package playerstats

import (
	"math"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/event"
)

type Passes struct {
	Total      int
	Successful int
	Accuracy   float64
	KeyPasses  int
}

type Shots struct {
	Total         int
	OnTarget      int
	Goals         int
	ExpectedGoals float64
}

type Tackles struct {
	Total      int
	Successful int
}

type Cards struct {
	Yellow int
	Red    int
}

// Stats is the per-player statistics block of a match.
type Stats struct {
	PlayerID         int64
	PlayerName       string
	TeamName         string
	Passes           Passes
	Shots            Shots
	Tackles          Tackles
	Interceptions    int
	Assists          int
	Cards            Cards
	EventsFirstHalf  int
	EventsSecondHalf int
	TotalEvents      int
	MinutesPlayed    int
	ActionsByType    map[event.Type]int
}

// Compute filters the feed by player id and counts the player's actions.
func Compute(items []event.Event, playerID int64) Stats {
	own := event.Apply(items, event.Filter{PlayerID: playerID})

	out := Stats{
		PlayerID:      playerID,
		TotalEvents:   len(own),
		ActionsByType: event.CountByType(own),
	}
	for _, item := range own {
		if out.PlayerName == "" {
			out.PlayerName = item.PlayerName
		}
		if out.TeamName == "" {
			out.TeamName = item.TeamName
		}

		switch item.Period {
		case 1:
			out.EventsFirstHalf++
		case 2:
			out.EventsSecondHalf++
		}

		switch {
		case item.IsShootoutKick():
			// shootout kicks are not match shots
		case item.IsPass():
			out.Passes.Total++
			if item.IsPassCompleted() {
				out.Passes.Successful++
			}
			if item.GoalAssist {
				out.Assists++
			}
			if item.ShotAssist || item.GoalAssist {
				out.Passes.KeyPasses++
			}
		case item.IsShot():
			out.Shots.Total++
			out.Shots.ExpectedGoals += item.ExpectedGoals
			if item.IsShotOnTarget() {
				out.Shots.OnTarget++
			}
			if item.IsGoal() {
				out.Shots.Goals++
			}
		case item.IsTackle():
			out.Tackles.Total++
			if item.IsTackleWon() {
				out.Tackles.Successful++
			}
		case item.IsInterception():
			out.Interceptions++
		}

		if item.IsYellowCard() {
			out.Cards.Yellow++
		}
		if item.IsRedCard() {
			out.Cards.Red++
		}
	}

	out.Passes.Accuracy = Percentage(out.Passes.Successful, out.Passes.Total)
	out.Shots.ExpectedGoals = round(out.Shots.ExpectedGoals, 2)
	return out
}

// Percentage returns part/total as a percentage rounded to one decimal, 0
// when total is zero.
func Percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round(float64(part)*100/float64(total), 1)
}

func round(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
