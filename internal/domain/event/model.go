package event

import "strings"

type Type string

const (
	TypePass           Type = "Pass"
	TypeShot           Type = "Shot"
	TypeDuel           Type = "Duel"
	TypeTackle         Type = "Tackle"
	TypeInterception   Type = "Interception"
	TypeFoulCommitted  Type = "Foul Committed"
	TypeBadBehaviour   Type = "Bad Behaviour"
	TypeSubstitution   Type = "Substitution"
	TypeOwnGoalAgainst Type = "Own Goal Against"
	TypeOwnGoalFor     Type = "Own Goal For"
	TypeStartingXI     Type = "Starting XI"
	TypeHalfEnd        Type = "Half End"
	TypeBallRecovery   Type = "Ball Recovery"
	TypeCarry          Type = "Carry"
)

const (
	OutcomeGoal        = "Goal"
	OutcomeSaved       = "Saved"
	OutcomeSavedToPost = "Saved To Post"
	SubtypeTackle      = "Tackle"
	CardYellow         = "Yellow Card"
	CardSecondYellow   = "Second Yellow"
	CardRed            = "Red Card"
)

// PeriodPenaltyShootout is the feed's period for shootout kicks.
const PeriodPenaltyShootout = 5

// Location is a pitch coordinate on the 120x80 open-data grid.
type Location struct {
	X float64
	Y float64
}

// Event is one timestamped action of a match.
type Event struct {
	ID             string
	Index          int
	Period         int
	Minute         int
	Second         int
	Timestamp      string
	Type           Type
	Subtype        string
	TeamID         int64
	TeamName       string
	PlayerID       int64
	PlayerName     string
	Position       string
	PossessionTeam string
	Location       *Location
	UnderPressure  bool
	Outcome        string
	CardType       string
	Recipient      string
	ShotAssist     bool
	GoalAssist     bool
	KeyPassID      string
	ExpectedGoals  float64
	Replacement    string
	RelatedEvents  []string
}

// ParseType maps free-form input ("pass", "foul committed") to a Type.
func ParseType(value string) Type {
	value = strings.TrimSpace(value)
	for _, known := range knownTypes {
		if strings.EqualFold(string(known), value) {
			return known
		}
	}
	return Type(value)
}

var knownTypes = []Type{
	TypePass,
	TypeShot,
	TypeDuel,
	TypeTackle,
	TypeInterception,
	TypeFoulCommitted,
	TypeBadBehaviour,
	TypeSubstitution,
	TypeOwnGoalAgainst,
	TypeOwnGoalFor,
	TypeStartingXI,
	TypeHalfEnd,
	TypeBallRecovery,
	TypeCarry,
}

func (e Event) IsPass() bool {
	return e.Type == TypePass
}

func (e Event) IsShot() bool {
	return e.Type == TypeShot
}

// IsPassCompleted reports a pass without an outcome, which the feed uses for
// completed passes.
func (e Event) IsPassCompleted() bool {
	return e.IsPass() && strings.TrimSpace(e.Outcome) == ""
}

func (e Event) IsShotOnTarget() bool {
	if !e.IsShot() {
		return false
	}
	switch e.Outcome {
	case OutcomeGoal, OutcomeSaved, OutcomeSavedToPost:
		return true
	default:
		return false
	}
}

// IsGoal excludes shootout kicks, which never change the match score.
func (e Event) IsGoal() bool {
	return e.IsShot() && e.Outcome == OutcomeGoal && !e.IsShootoutKick()
}

func (e Event) IsShootoutKick() bool {
	return e.IsShot() && e.Period == PeriodPenaltyShootout
}

func (e Event) IsTackle() bool {
	if e.Type == TypeTackle {
		return true
	}
	return e.Type == TypeDuel && strings.EqualFold(e.Subtype, SubtypeTackle)
}

func (e Event) IsTackleWon() bool {
	if !e.IsTackle() {
		return false
	}
	switch e.Outcome {
	case "Won", "Success", "Success In Play", "Success Out":
		return true
	default:
		return false
	}
}

func (e Event) IsInterception() bool {
	return e.Type == TypeInterception
}

func (e Event) IsCard() bool {
	return strings.TrimSpace(e.CardType) != ""
}

func (e Event) IsYellowCard() bool {
	return e.CardType == CardYellow
}

// IsRedCard counts a second yellow as a sending off.
func (e Event) IsRedCard() bool {
	return e.CardType == CardRed || e.CardType == CardSecondYellow
}
