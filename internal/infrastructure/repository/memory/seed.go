package memory

import (
	"fmt"
	"time"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/event"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/lineup"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/match"
)

// The seeded sample is the EURO 2020 opener, used when the open-data feed is
// disabled.
const (
	SampleCompetitionID = int64(55)
	SampleSeasonID      = int64(43)
	SampleMatchID       = int64(3788741)

	teamTurkeyID = int64(909)
	teamItalyID  = int64(914)
	teamTurkey   = "Turkey"
	teamItaly    = "Italy"
)

type seedPlayer struct {
	id       int64
	name     string
	nickname string
	jersey   int
	position string
}

var (
	turkeyXI = []seedPlayer{
		{id: 6994, name: "Uğurcan Çakır", jersey: 23, position: "Goalkeeper"},
		{id: 5205, name: "Zeki Çelik", jersey: 2, position: "Right Back"},
		{id: 5202, name: "Merih Demiral", jersey: 3, position: "Right Center Back"},
		{id: 5207, name: "Çağlar Söyüncü", jersey: 4, position: "Left Center Back"},
		{id: 5210, name: "Umut Meraş", jersey: 13, position: "Left Back"},
		{id: 5214, name: "Okay Yokuşlu", jersey: 5, position: "Center Defensive Midfield"},
		{id: 5220, name: "Ozan Tufan", jersey: 18, position: "Right Center Midfield"},
		{id: 5225, name: "Hakan Çalhanoğlu", jersey: 10, position: "Left Center Midfield"},
		{id: 5231, name: "Cengiz Ünder", jersey: 7, position: "Right Wing"},
		{id: 5236, name: "Yusuf Yazıcı", jersey: 11, position: "Left Wing"},
		{id: 5240, name: "Burak Yılmaz", jersey: 17, position: "Center Forward"},
	}
	italyXI = []seedPlayer{
		{id: 7037, name: "Gianluigi Donnarumma", jersey: 21, position: "Goalkeeper"},
		{id: 7039, name: "Alessandro Florenzi", jersey: 24, position: "Right Back"},
		{id: 7042, name: "Leonardo Bonucci", jersey: 19, position: "Right Center Back"},
		{id: 7045, name: "Giorgio Chiellini", jersey: 3, position: "Left Center Back"},
		{id: 7788, name: "Leonardo Spinazzola", jersey: 4, position: "Left Back"},
		{id: 7050, name: "Nicolò Barella", jersey: 18, position: "Right Center Midfield"},
		{id: 7052, name: "Jorge Luiz Frello Filho", nickname: "Jorginho", jersey: 8, position: "Center Defensive Midfield"},
		{id: 7055, name: "Manuel Locatelli", jersey: 5, position: "Left Center Midfield"},
		{id: 7058, name: "Domenico Berardi", jersey: 11, position: "Right Wing"},
		{id: 7024, name: "Ciro Immobile", jersey: 17, position: "Center Forward"},
		{id: 7061, name: "Lorenzo Insigne", jersey: 10, position: "Left Wing"},
	}
	turkeyBench = []seedPlayer{
		{id: 5245, name: "İrfan Can Kahveci", jersey: 8, position: "Left Wing"},
		{id: 5248, name: "Kerem Aktürkoğlu", jersey: 21, position: "Right Wing"},
	}
	italyBench = []seedPlayer{
		{id: 7064, name: "Giovanni Di Lorenzo", jersey: 2, position: "Right Back"},
		{id: 7067, name: "Andrea Belotti", jersey: 9, position: "Center Forward"},
		{id: 7070, name: "Federico Chiesa", jersey: 14, position: "Right Wing"},
	}
)

// SeedCompetitions returns the catalog rows the sample belongs to.
func SeedCompetitions() []match.Competition {
	return []match.Competition{
		{CompetitionID: SampleCompetitionID, SeasonID: SampleSeasonID, Name: "UEFA Euro", SeasonName: "2020", Country: "Europe", Gender: "male", International: true},
	}
}

func SeedMatches() []match.Match {
	home, away := 0, 3
	return []match.Match{
		{
			ID:               SampleMatchID,
			CompetitionID:    SampleCompetitionID,
			CompetitionName:  "UEFA Euro",
			SeasonID:         SampleSeasonID,
			SeasonName:       "2020",
			Date:             time.Date(2021, 6, 11, 0, 0, 0, 0, time.UTC),
			KickOff:          "21:00:00.000",
			HomeTeamID:       teamTurkeyID,
			HomeTeam:         teamTurkey,
			AwayTeamID:       teamItalyID,
			AwayTeam:         teamItaly,
			HomeScore:        &home,
			AwayScore:        &away,
			Stadium:          "Stadio Olimpico",
			Referee:          "Danny Makkelie",
			CompetitionStage: "Group Stage",
			MatchWeek:        1,
			Status:           "available",
		},
	}
}

func SeedLineups() []lineup.TeamLineup {
	return []lineup.TeamLineup{
		buildTeamLineup(teamTurkeyID, teamTurkey, turkeyXI, turkeyBench, map[int64]substitutionWindow{
			5236: {minute: "46:00", period: 2, on: 5245},
			5231: {minute: "76:00", period: 2, on: 5248},
		}),
		buildTeamLineup(teamItalyID, teamItaly, italyXI, italyBench, map[int64]substitutionWindow{
			7039: {minute: "46:00", period: 2, on: 7064},
			7024: {minute: "81:00", period: 2, on: 7067},
			7058: {minute: "85:00", period: 2, on: 7070},
		}),
	}
}

type substitutionWindow struct {
	minute string
	period int
	on     int64
}

func buildTeamLineup(teamID int64, teamName string, starters, bench []seedPlayer, subs map[int64]substitutionWindow) lineup.TeamLineup {
	out := lineup.TeamLineup{TeamID: teamID, TeamName: teamName}
	entries := make(map[int64]substitutionWindow, len(subs))
	for off, window := range subs {
		entries[window.on] = substitutionWindow{minute: window.minute, period: window.period, on: off}
	}

	for _, p := range starters {
		spell := lineup.Spell{Position: p.position, From: "00:00", FromPeriod: 1, StartReason: "Starting XI"}
		if window, ok := subs[p.id]; ok {
			spell.To = window.minute
			spell.ToPeriod = window.period
			spell.EndReason = "Substitution - Off (Tactical)"
		}
		out.Players = append(out.Players, seedLineupPlayer(p, []lineup.Spell{spell}))
	}
	for _, p := range bench {
		var spells []lineup.Spell
		if window, ok := entries[p.id]; ok {
			spells = append(spells, lineup.Spell{
				Position:    p.position,
				From:        window.minute,
				FromPeriod:  window.period,
				StartReason: "Substitution - On (Tactical)",
			})
		}
		out.Players = append(out.Players, seedLineupPlayer(p, spells))
	}
	return out
}

func seedLineupPlayer(p seedPlayer, spells []lineup.Spell) lineup.Player {
	country := teamItaly
	if p.id < 7000 {
		country = teamTurkey
	}
	return lineup.Player{
		ID:           p.id,
		Name:         p.name,
		Nickname:     p.nickname,
		JerseyNumber: p.jersey,
		Country:      country,
		Positions:    spells,
	}
}

// eventLog appends events with increasing indexes and stable ids.
type eventLog struct {
	items []event.Event
}

func (l *eventLog) add(period, minute, second int, team string, p *seedPlayer, typ event.Type, possession string, mutate func(*event.Event)) *event.Event {
	index := len(l.items) + 1
	item := event.Event{
		ID:             fmt.Sprintf("seed-%04d", index),
		Index:          index,
		Period:         period,
		Minute:         minute,
		Second:         second,
		Timestamp:      fmt.Sprintf("00:%02d:%02d.000", minute%60, second),
		Type:           typ,
		TeamName:       team,
		PossessionTeam: possession,
	}
	if team == teamItaly {
		item.TeamID = teamItalyID
	} else {
		item.TeamID = teamTurkeyID
	}
	if p != nil {
		item.PlayerID = p.id
		item.PlayerName = p.name
		item.Position = p.position
	}
	if mutate != nil {
		mutate(&item)
	}
	l.items = append(l.items, item)
	return &l.items[len(l.items)-1]
}

func playerByID(id int64) *seedPlayer {
	for _, group := range [][]seedPlayer{turkeyXI, italyXI, turkeyBench, italyBench} {
		for i := range group {
			if group[i].id == id {
				return &group[i]
			}
		}
	}
	return nil
}

func completedPass(recipient int64, x, y float64) func(*event.Event) {
	return func(e *event.Event) {
		e.Location = &event.Location{X: x, Y: y}
		if p := playerByID(recipient); p != nil {
			e.Recipient = p.name
		}
	}
}

func failedPass(x, y float64) func(*event.Event) {
	return func(e *event.Event) {
		e.Location = &event.Location{X: x, Y: y}
		e.Outcome = "Incomplete"
	}
}

func shot(outcome string, xg float64, keyPass string) func(*event.Event) {
	return func(e *event.Event) {
		e.Subtype = "Open Play"
		e.Outcome = outcome
		e.ExpectedGoals = xg
		e.KeyPassID = keyPass
	}
}

// SeedEvents returns a condensed event stream for the sample match. Totals
// agree with the scoreline and the lineup substitutions.
func SeedEvents() []event.Event {
	log := &eventLog{}
	p := playerByID

	log.add(1, 0, 0, teamTurkey, nil, event.TypeStartingXI, teamTurkey, nil)
	log.add(1, 0, 0, teamItaly, nil, event.TypeStartingXI, teamTurkey, nil)

	// First half: Italy dominate the ball without breaking through.
	log.add(1, 0, 1, teamTurkey, p(5240), event.TypePass, teamTurkey, completedPass(5225, 60, 40))
	log.add(1, 0, 4, teamTurkey, p(5225), event.TypePass, teamTurkey, failedPass(55, 30))
	log.add(1, 0, 9, teamItaly, p(7045), event.TypeBallRecovery, teamItaly, nil)
	log.add(1, 1, 2, teamItaly, p(7052), event.TypePass, teamItaly, completedPass(7050, 45, 40))
	log.add(1, 1, 6, teamItaly, p(7050), event.TypePass, teamItaly, completedPass(7058, 62, 65))
	log.add(1, 4, 30, teamItaly, p(7058), event.TypePass, teamItaly, completedPass(7024, 95, 55))
	log.add(1, 4, 33, teamItaly, p(7024), event.TypeShot, teamItaly, shot("Blocked", 0.08, ""))
	log.add(1, 9, 12, teamTurkey, p(5214), event.TypeDuel, teamItaly, func(e *event.Event) {
		e.Subtype = event.SubtypeTackle
		e.Outcome = "Won"
	})
	log.add(1, 11, 40, teamItaly, p(7055), event.TypePass, teamItaly, completedPass(7788, 50, 70))
	log.add(1, 11, 44, teamItaly, p(7788), event.TypeCarry, teamItaly, nil)
	log.add(1, 11, 49, teamItaly, p(7788), event.TypePass, teamItaly, failedPass(98, 72))
	log.add(1, 15, 2, teamTurkey, p(5207), event.TypeInterception, teamItaly, func(e *event.Event) { e.Outcome = "Won" })
	log.add(1, 18, 20, teamItaly, p(7061), event.TypePass, teamItaly, completedPass(7024, 100, 30))
	keyPass := log.add(1, 21, 5, teamItaly, p(7050), event.TypePass, teamItaly, completedPass(7061, 92, 25))
	keyPass.ShotAssist = true
	keyPassID := keyPass.ID
	log.add(1, 21, 8, teamItaly, p(7061), event.TypeShot, teamItaly, shot("Saved", 0.11, keyPassID))
	log.add(1, 24, 40, teamItaly, p(7042), event.TypePass, teamItaly, completedPass(7045, 30, 45))
	log.add(1, 27, 11, teamTurkey, p(5220), event.TypeFoulCommitted, teamItaly, nil)
	log.add(1, 30, 55, teamItaly, p(7050), event.TypeDuel, teamTurkey, func(e *event.Event) {
		e.Subtype = event.SubtypeTackle
		e.Outcome = "Lost In Play"
	})
	log.add(1, 33, 20, teamTurkey, p(5231), event.TypePass, teamTurkey, completedPass(5240, 80, 20))
	log.add(1, 33, 24, teamTurkey, p(5240), event.TypeShot, teamTurkey, shot("Off T", 0.04, ""))
	log.add(1, 38, 2, teamItaly, p(7045), event.TypeShot, teamItaly, func(e *event.Event) {
		e.Subtype = "From Corner"
		e.Outcome = event.OutcomeSaved
		e.ExpectedGoals = 0.09
	})
	log.add(1, 41, 10, teamItaly, p(7052), event.TypeInterception, teamTurkey, func(e *event.Event) { e.Outcome = "Success In Play" })
	log.add(1, 45, 30, teamItaly, nil, event.TypeHalfEnd, teamItaly, nil)
	log.add(1, 45, 30, teamTurkey, nil, event.TypeHalfEnd, teamItaly, nil)

	// Second half.
	log.add(2, 45, 0, teamTurkey, p(5236), event.TypeSubstitution, teamTurkey, func(e *event.Event) {
		e.Replacement = p(5245).name
		e.Outcome = "Tactical"
	})
	log.add(2, 45, 0, teamItaly, p(7039), event.TypeSubstitution, teamTurkey, func(e *event.Event) {
		e.Replacement = p(7064).name
		e.Outcome = "Tactical"
	})
	log.add(2, 47, 15, teamItaly, p(7052), event.TypePass, teamItaly, completedPass(7058, 55, 60))
	log.add(2, 52, 40, teamItaly, p(7058), event.TypePass, teamItaly, failedPass(110, 70))
	log.add(2, 52, 41, teamTurkey, p(5202), event.TypeOwnGoalAgainst, teamItaly, nil)
	log.add(2, 52, 41, teamItaly, nil, event.TypeOwnGoalFor, teamItaly, nil)
	log.add(2, 58, 3, teamTurkey, p(5225), event.TypeFoulCommitted, teamItaly, nil)
	log.add(2, 60, 30, teamTurkey, p(5245), event.TypeDuel, teamItaly, func(e *event.Event) {
		e.Subtype = event.SubtypeTackle
		e.Outcome = "Success In Play"
	})
	log.add(2, 65, 40, teamItaly, p(7788), event.TypeShot, teamItaly, shot(event.OutcomeSaved, 0.07, ""))
	log.add(2, 65, 44, teamItaly, p(7024), event.TypeShot, teamItaly, shot(event.OutcomeGoal, 0.35, ""))
	log.add(2, 70, 12, teamItaly, p(7050), event.TypePass, teamItaly, completedPass(7052, 48, 38))
	log.add(2, 72, 5, teamTurkey, p(5214), event.TypeFoulCommitted, teamItaly, nil)
	log.add(2, 75, 12, teamTurkey, p(5231), event.TypeSubstitution, teamItaly, func(e *event.Event) {
		e.Replacement = p(5248).name
		e.Outcome = "Tactical"
	})
	log.add(2, 78, 10, teamItaly, p(7045), event.TypeInterception, teamTurkey, func(e *event.Event) { e.Outcome = "Won" })
	assist := log.add(2, 78, 30, teamItaly, p(7024), event.TypePass, teamItaly, completedPass(7061, 96, 28))
	assist.ShotAssist = true
	assist.GoalAssist = true
	assistID := assist.ID
	log.add(2, 78, 33, teamItaly, p(7061), event.TypeShot, teamItaly, shot(event.OutcomeGoal, 0.21, assistID))
	log.add(2, 80, 50, teamItaly, p(7024), event.TypeSubstitution, teamTurkey, func(e *event.Event) {
		e.Replacement = p(7067).name
		e.Outcome = "Tactical"
	})
	log.add(2, 84, 5, teamItaly, p(7058), event.TypeSubstitution, teamTurkey, func(e *event.Event) {
		e.Replacement = p(7070).name
		e.Outcome = "Tactical"
	})
	log.add(2, 87, 20, teamTurkey, p(5207), event.TypeDuel, teamItaly, func(e *event.Event) {
		e.Subtype = event.SubtypeTackle
		e.Outcome = "Won"
	})
	log.add(2, 88, 2, teamItaly, p(7070), event.TypeShot, teamItaly, shot("Off T", 0.05, ""))
	log.add(2, 94, 10, teamItaly, nil, event.TypeHalfEnd, teamItaly, nil)
	log.add(2, 94, 10, teamTurkey, nil, event.TypeHalfEnd, teamItaly, nil)

	return log.items
}
