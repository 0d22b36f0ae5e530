package lineup

import (
	"strconv"
	"strings"
)

// Spell is one stint of a player in a position.
type Spell struct {
	Position    string
	From        string
	To          string
	FromPeriod  int
	ToPeriod    int
	StartReason string
	EndReason   string
}

type Card struct {
	Time     string
	CardType string
	Reason   string
	Period   int
}

// Player is one entry of a team lineup.
type Player struct {
	ID           int64
	Name         string
	Nickname     string
	JerseyNumber int
	Country      string
	Positions    []Spell
	Cards        []Card
}

// TeamLineup holds the players fielded by one team.
type TeamLineup struct {
	TeamID   int64
	TeamName string
	Players  []Player
}

// DisplayName prefers the nickname the feed carries for well-known players.
func (p Player) DisplayName() string {
	if nick := strings.TrimSpace(p.Nickname); nick != "" {
		return nick
	}
	return p.Name
}

func (p Player) Starter() bool {
	return len(p.Positions) > 0 && strings.EqualFold(p.Positions[0].StartReason, "Starting XI")
}

// PrimaryPosition is the position the player started the match in.
func (p Player) PrimaryPosition() string {
	if len(p.Positions) == 0 {
		return ""
	}
	return p.Positions[0].Position
}

// MinutesPlayed sums the spells; an open spell runs to matchEnd.
func (p Player) MinutesPlayed(matchEnd int) int {
	if matchEnd <= 0 {
		matchEnd = 90
	}

	total := 0
	for _, spell := range p.Positions {
		from := clockMinute(spell.From)
		to := matchEnd
		if strings.TrimSpace(spell.To) != "" {
			to = clockMinute(spell.To)
		}
		if to > from {
			total += to - from
		}
	}
	return total
}

// FindPlayer searches both lineups.
func FindPlayer(lineups []TeamLineup, playerID int64) (Player, TeamLineup, bool) {
	for _, team := range lineups {
		for _, item := range team.Players {
			if item.ID == playerID {
				return item, team, true
			}
		}
	}
	return Player{}, TeamLineup{}, false
}

// clockMinute reads the "MM:SS" clock used by the feed.
func clockMinute(value string) int {
	minutes, _, _ := strings.Cut(strings.TrimSpace(value), ":")
	out, err := strconv.Atoi(minutes)
	if err != nil || out < 0 {
		return 0
	}
	return out
}
