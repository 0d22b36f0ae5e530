package match

import (
	"sort"
	"strings"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/event"
)

type Goal struct {
	Minute  int
	Period  int
	Scorer  string
	Team    string
	Assist  string
	OwnGoal bool
}

type Card struct {
	Minute   int
	Period   int
	Player   string
	Team     string
	CardType string
}

type Substitution struct {
	Minute    int
	Period    int
	Team      string
	PlayerOut string
	PlayerIn  string
}

// ShootoutKick is one penalty of a shootout, in taking order.
type ShootoutKick struct {
	Order  int
	Player string
	Team   string
	Scored bool
}

// Summary carries the key events of a match ordered by period and minute.
type Summary struct {
	Match         Match
	Goals         []Goal
	Cards         []Card
	Substitutions []Substitution
	Shootout      []ShootoutKick
}

// ShootoutScore counts scored shootout kicks per side.
func (s Summary) ShootoutScore() (home, away int) {
	for _, kick := range s.Shootout {
		if !kick.Scored {
			continue
		}
		switch {
		case strings.EqualFold(kick.Team, s.Match.HomeTeam):
			home++
		case strings.EqualFold(kick.Team, s.Match.AwayTeam):
			away++
		}
	}
	return home, away
}

// Summarize extracts goals, cards and substitutions from the event feed.
// When the match header carries no score it is derived from the goals.
func Summarize(m Match, items []event.Event) Summary {
	passByID := make(map[string]event.Event, 64)
	for _, item := range items {
		if item.IsPass() && item.ID != "" && (item.GoalAssist || item.ShotAssist) {
			passByID[item.ID] = item
		}
	}

	out := Summary{Match: m}
	for _, item := range items {
		switch {
		case item.IsShootoutKick():
			out.Shootout = append(out.Shootout, ShootoutKick{
				Order:  len(out.Shootout) + 1,
				Player: item.PlayerName,
				Team:   item.TeamName,
				Scored: item.Outcome == event.OutcomeGoal,
			})
		case item.IsGoal():
			goal := Goal{Minute: item.Minute, Period: item.Period, Scorer: item.PlayerName, Team: item.TeamName}
			if pass, ok := passByID[item.KeyPassID]; ok && pass.GoalAssist {
				goal.Assist = pass.PlayerName
			}
			out.Goals = append(out.Goals, goal)
		case item.Type == event.TypeOwnGoalAgainst:
			team := m.Opponent(item.TeamName)
			if team == "" {
				team = item.TeamName
			}
			out.Goals = append(out.Goals, Goal{
				Minute:  item.Minute,
				Period:  item.Period,
				Scorer:  item.PlayerName,
				Team:    team,
				OwnGoal: true,
			})
		case item.Type == event.TypeSubstitution:
			out.Substitutions = append(out.Substitutions, Substitution{
				Minute:    item.Minute,
				Period:    item.Period,
				Team:      item.TeamName,
				PlayerOut: item.PlayerName,
				PlayerIn:  item.Replacement,
			})
		}

		if item.IsCard() {
			out.Cards = append(out.Cards, Card{
				Minute:   item.Minute,
				Period:   item.Period,
				Player:   item.PlayerName,
				Team:     item.TeamName,
				CardType: item.CardType,
			})
		}
	}

	// Minutes restart at 45 in the second half, so period leads the order.
	sort.SliceStable(out.Goals, func(i, j int) bool {
		return before(out.Goals[i].Period, out.Goals[i].Minute, out.Goals[j].Period, out.Goals[j].Minute)
	})
	sort.SliceStable(out.Cards, func(i, j int) bool {
		return before(out.Cards[i].Period, out.Cards[i].Minute, out.Cards[j].Period, out.Cards[j].Minute)
	})
	sort.SliceStable(out.Substitutions, func(i, j int) bool {
		return before(out.Substitutions[i].Period, out.Substitutions[i].Minute, out.Substitutions[j].Period, out.Substitutions[j].Minute)
	})

	if out.Match.HomeScore == nil || out.Match.AwayScore == nil {
		home, away := 0, 0
		for _, goal := range out.Goals {
			switch {
			case strings.EqualFold(goal.Team, m.HomeTeam):
				home++
			case strings.EqualFold(goal.Team, m.AwayTeam):
				away++
			}
		}
		out.Match.HomeScore = &home
		out.Match.AwayScore = &away
	}

	return out
}

// GoalsFor counts the goals credited to team.
func (s Summary) GoalsFor(team string) int {
	total := 0
	for _, goal := range s.Goals {
		if strings.EqualFold(goal.Team, team) {
			total++
		}
	}
	return total
}

func before(periodA, minuteA, periodB, minuteB int) bool {
	if periodA != periodB {
		return periodA < periodB
	}
	return minuteA < minuteB
}
