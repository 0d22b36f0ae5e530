package match

import (
	"fmt"
	"strings"
	"time"
)

// Competition is one competition season of the open-data catalog.
type Competition struct {
	CompetitionID int64
	SeasonID      int64
	Name          string
	SeasonName    string
	Country       string
	Gender        string
	International bool
}

// Match is the header record of one fixture.
type Match struct {
	ID               int64
	CompetitionID    int64
	CompetitionName  string
	SeasonID         int64
	SeasonName       string
	Date             time.Time
	KickOff          string
	HomeTeamID       int64
	HomeTeam         string
	AwayTeamID       int64
	AwayTeam         string
	HomeScore        *int
	AwayScore        *int
	Stadium          string
	Referee          string
	CompetitionStage string
	MatchWeek        int
	Status           string
}

// Score renders "H-A"; unknown scores render as "-".
func (m Match) Score() string {
	if m.HomeScore == nil || m.AwayScore == nil {
		return "-"
	}
	return fmt.Sprintf("%d-%d", *m.HomeScore, *m.AwayScore)
}

// Opponent returns the other side of team, or "" when team did not play.
func (m Match) Opponent(team string) string {
	switch {
	case strings.EqualFold(team, m.HomeTeam):
		return m.AwayTeam
	case strings.EqualFold(team, m.AwayTeam):
		return m.HomeTeam
	default:
		return ""
	}
}

func (m Match) Title() string {
	return m.HomeTeam + " vs " + m.AwayTeam
}
