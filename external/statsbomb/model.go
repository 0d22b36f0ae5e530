package statsbomb

import (
	"strings"
	"time"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/event"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/lineup"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/match"
)

type namedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type competitionRecord struct {
	CompetitionID            int64  `json:"competition_id"`
	SeasonID                 int64  `json:"season_id"`
	CountryName              string `json:"country_name"`
	CompetitionName          string `json:"competition_name"`
	CompetitionGender        string `json:"competition_gender"`
	CompetitionInternational bool   `json:"competition_international"`
	SeasonName               string `json:"season_name"`
}

type matchRecord struct {
	MatchID     int64  `json:"match_id"`
	MatchDate   string `json:"match_date"`
	KickOff     string `json:"kick_off"`
	Competition struct {
		CompetitionID   int64  `json:"competition_id"`
		CountryName     string `json:"country_name"`
		CompetitionName string `json:"competition_name"`
	} `json:"competition"`
	Season struct {
		SeasonID   int64  `json:"season_id"`
		SeasonName string `json:"season_name"`
	} `json:"season"`
	HomeTeam struct {
		ID   int64  `json:"home_team_id"`
		Name string `json:"home_team_name"`
	} `json:"home_team"`
	AwayTeam struct {
		ID   int64  `json:"away_team_id"`
		Name string `json:"away_team_name"`
	} `json:"away_team"`
	HomeScore        *int      `json:"home_score"`
	AwayScore        *int      `json:"away_score"`
	MatchStatus      string    `json:"match_status"`
	MatchWeek        int       `json:"match_week"`
	CompetitionStage *namedRef `json:"competition_stage"`
	Stadium          *namedRef `json:"stadium"`
	Referee          *namedRef `json:"referee"`
}

type outcomeBlock struct {
	Type    *namedRef `json:"type"`
	Outcome *namedRef `json:"outcome"`
}

type eventRecord struct {
	ID             string    `json:"id"`
	Index          int       `json:"index"`
	Period         int       `json:"period"`
	Timestamp      string    `json:"timestamp"`
	Minute         int       `json:"minute"`
	Second         int       `json:"second"`
	Type           namedRef  `json:"type"`
	PossessionTeam *namedRef `json:"possession_team"`
	Team           *namedRef `json:"team"`
	Player         *namedRef `json:"player"`
	Position       *namedRef `json:"position"`
	Location       []float64 `json:"location"`
	UnderPressure  bool      `json:"under_pressure"`
	RelatedEvents  []string  `json:"related_events"`

	Pass *struct {
		Recipient  *namedRef `json:"recipient"`
		Type       *namedRef `json:"type"`
		Outcome    *namedRef `json:"outcome"`
		ShotAssist bool      `json:"shot_assist"`
		GoalAssist bool      `json:"goal_assist"`
	} `json:"pass"`
	Shot *struct {
		StatsbombXG float64   `json:"statsbomb_xg"`
		Type        *namedRef `json:"type"`
		Outcome     *namedRef `json:"outcome"`
		KeyPassID   string    `json:"key_pass_id"`
	} `json:"shot"`
	Duel          *outcomeBlock `json:"duel"`
	Interception  *outcomeBlock `json:"interception"`
	Dribble       *outcomeBlock `json:"dribble"`
	Goalkeeper    *outcomeBlock `json:"goalkeeper"`
	FoulCommitted *struct {
		Card *namedRef `json:"card"`
	} `json:"foul_committed"`
	BadBehaviour *struct {
		Card *namedRef `json:"card"`
	} `json:"bad_behaviour"`
	Substitution *struct {
		Replacement *namedRef `json:"replacement"`
		Outcome     *namedRef `json:"outcome"`
	} `json:"substitution"`
}

type lineupRecord struct {
	TeamID   int64  `json:"team_id"`
	TeamName string `json:"team_name"`
	Lineup   []struct {
		PlayerID       int64     `json:"player_id"`
		PlayerName     string    `json:"player_name"`
		PlayerNickname *string   `json:"player_nickname"`
		JerseyNumber   int       `json:"jersey_number"`
		Country        *namedRef `json:"country"`
		Cards          []struct {
			Time     string `json:"time"`
			CardType string `json:"card_type"`
			Reason   string `json:"reason"`
			Period   int    `json:"period"`
		} `json:"cards"`
		Positions []struct {
			Position    string  `json:"position"`
			From        string  `json:"from"`
			To          *string `json:"to"`
			FromPeriod  int     `json:"from_period"`
			ToPeriod    *int    `json:"to_period"`
			StartReason string  `json:"start_reason"`
			EndReason   string  `json:"end_reason"`
		} `json:"positions"`
	} `json:"lineup"`
}

func (r competitionRecord) toDomain() match.Competition {
	return match.Competition{
		CompetitionID: r.CompetitionID,
		SeasonID:      r.SeasonID,
		Name:          strings.TrimSpace(r.CompetitionName),
		SeasonName:    strings.TrimSpace(r.SeasonName),
		Country:       strings.TrimSpace(r.CountryName),
		Gender:        strings.TrimSpace(r.CompetitionGender),
		International: r.CompetitionInternational,
	}
}

func (r matchRecord) toDomain() match.Match {
	out := match.Match{
		ID:               r.MatchID,
		CompetitionID:    r.Competition.CompetitionID,
		CompetitionName:  strings.TrimSpace(r.Competition.CompetitionName),
		SeasonID:         r.Season.SeasonID,
		SeasonName:       strings.TrimSpace(r.Season.SeasonName),
		KickOff:          strings.TrimSpace(r.KickOff),
		HomeTeamID:       r.HomeTeam.ID,
		HomeTeam:         strings.TrimSpace(r.HomeTeam.Name),
		AwayTeamID:       r.AwayTeam.ID,
		AwayTeam:         strings.TrimSpace(r.AwayTeam.Name),
		HomeScore:        r.HomeScore,
		AwayScore:        r.AwayScore,
		Stadium:          refName(r.Stadium),
		Referee:          refName(r.Referee),
		CompetitionStage: refName(r.CompetitionStage),
		MatchWeek:        r.MatchWeek,
		Status:           strings.TrimSpace(r.MatchStatus),
	}
	if parsed, err := time.Parse("2006-01-02", strings.TrimSpace(r.MatchDate)); err == nil {
		out.Date = parsed
	}
	return out
}

func (r eventRecord) toDomain() event.Event {
	out := event.Event{
		ID:             r.ID,
		Index:          r.Index,
		Period:         r.Period,
		Minute:         r.Minute,
		Second:         r.Second,
		Timestamp:      r.Timestamp,
		Type:           event.ParseType(r.Type.Name),
		PossessionTeam: refName(r.PossessionTeam),
		TeamName:       refName(r.Team),
		PlayerName:     refName(r.Player),
		Position:       refName(r.Position),
		UnderPressure:  r.UnderPressure,
		RelatedEvents:  r.RelatedEvents,
	}
	if r.Team != nil {
		out.TeamID = r.Team.ID
	}
	if r.Player != nil {
		out.PlayerID = r.Player.ID
	}
	if len(r.Location) >= 2 {
		out.Location = &event.Location{X: r.Location[0], Y: r.Location[1]}
	}

	switch {
	case r.Pass != nil:
		out.Subtype = refName(r.Pass.Type)
		out.Outcome = refName(r.Pass.Outcome)
		out.Recipient = refName(r.Pass.Recipient)
		out.ShotAssist = r.Pass.ShotAssist
		out.GoalAssist = r.Pass.GoalAssist
	case r.Shot != nil:
		out.Subtype = refName(r.Shot.Type)
		out.Outcome = refName(r.Shot.Outcome)
		out.KeyPassID = r.Shot.KeyPassID
		out.ExpectedGoals = r.Shot.StatsbombXG
	case r.Duel != nil:
		out.Subtype, out.Outcome = r.Duel.names()
	case r.Interception != nil:
		out.Subtype, out.Outcome = r.Interception.names()
	case r.Dribble != nil:
		out.Subtype, out.Outcome = r.Dribble.names()
	case r.Goalkeeper != nil:
		out.Subtype, out.Outcome = r.Goalkeeper.names()
	case r.Substitution != nil:
		out.Replacement = refName(r.Substitution.Replacement)
		out.Outcome = refName(r.Substitution.Outcome)
	}

	switch {
	case r.FoulCommitted != nil && r.FoulCommitted.Card != nil:
		out.CardType = refName(r.FoulCommitted.Card)
	case r.BadBehaviour != nil && r.BadBehaviour.Card != nil:
		out.CardType = refName(r.BadBehaviour.Card)
	}
	return out
}

func (r lineupRecord) toDomain() lineup.TeamLineup {
	out := lineup.TeamLineup{
		TeamID:   r.TeamID,
		TeamName: strings.TrimSpace(r.TeamName),
		Players:  make([]lineup.Player, 0, len(r.Lineup)),
	}
	for _, item := range r.Lineup {
		player := lineup.Player{
			ID:           item.PlayerID,
			Name:         strings.TrimSpace(item.PlayerName),
			JerseyNumber: item.JerseyNumber,
			Country:      refName(item.Country),
		}
		if item.PlayerNickname != nil {
			player.Nickname = strings.TrimSpace(*item.PlayerNickname)
		}
		for _, card := range item.Cards {
			player.Cards = append(player.Cards, lineup.Card{
				Time:     card.Time,
				CardType: card.CardType,
				Reason:   card.Reason,
				Period:   card.Period,
			})
		}
		for _, spell := range item.Positions {
			row := lineup.Spell{
				Position:    spell.Position,
				From:        spell.From,
				FromPeriod:  spell.FromPeriod,
				StartReason: spell.StartReason,
				EndReason:   spell.EndReason,
			}
			if spell.To != nil {
				row.To = *spell.To
			}
			if spell.ToPeriod != nil {
				row.ToPeriod = *spell.ToPeriod
			}
			player.Positions = append(player.Positions, row)
		}
		out.Players = append(out.Players, player)
	}
	return out
}

func (b *outcomeBlock) names() (string, string) {
	return refName(b.Type), refName(b.Outcome)
}

func refName(ref *namedRef) string {
	if ref == nil {
		return ""
	}
	return strings.TrimSpace(ref.Name)
}
