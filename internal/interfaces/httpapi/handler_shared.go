package httpapi

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/event"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/lineup"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/match"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/narrative"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/playerstats"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/teamstats"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/usecase"
)

type chatMessageRequest struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=4000"`
}

type chatRequest struct {
	Question string               `json:"question" validate:"required,max=1000"`
	History  []chatMessageRequest `json:"history" validate:"omitempty,max=20,dive"`
}

type warmCacheRequest struct {
	CompetitionID int64 `json:"competition_id" validate:"required,gt=0"`
	SeasonID      int64 `json:"season_id" validate:"required,gt=0"`
	Limit         int   `json:"limit" validate:"gte=0,lte=500"`
}

type welcomeDTO struct {
	Message  string   `json:"message"`
	Version  string   `json:"version"`
	DocsURL  string   `json:"docsUrl,omitempty"`
	Styles   []string `json:"styles"`
	Features []string `json:"features"`
}

type competitionDTO struct {
	CompetitionID int64  `json:"competitionId"`
	SeasonID      int64  `json:"seasonId"`
	Name          string `json:"name"`
	SeasonName    string `json:"seasonName"`
	Country       string `json:"country"`
	Gender        string `json:"gender,omitempty"`
	International bool   `json:"international"`
}

type matchDTO struct {
	ID               int64  `json:"id"`
	CompetitionID    int64  `json:"competitionId,omitempty"`
	Competition      string `json:"competition,omitempty"`
	SeasonID         int64  `json:"seasonId,omitempty"`
	Season           string `json:"season,omitempty"`
	Date             string `json:"date,omitempty"`
	KickOff          string `json:"kickOff,omitempty"`
	HomeTeamID       int64  `json:"homeTeamId,omitempty"`
	HomeTeam         string `json:"homeTeam"`
	AwayTeamID       int64  `json:"awayTeamId,omitempty"`
	AwayTeam         string `json:"awayTeam"`
	HomeScore        *int   `json:"homeScore"`
	AwayScore        *int   `json:"awayScore"`
	Score            string `json:"score"`
	Stadium          string `json:"stadium,omitempty"`
	Referee          string `json:"referee,omitempty"`
	CompetitionStage string `json:"competitionStage,omitempty"`
	MatchWeek        int    `json:"matchWeek,omitempty"`
	Status           string `json:"status,omitempty"`
}

type locationDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type eventDTO struct {
	ID             string       `json:"id"`
	Index          int          `json:"index"`
	Period         int          `json:"period"`
	Minute         int          `json:"minute"`
	Second         int          `json:"second"`
	Timestamp      string       `json:"timestamp,omitempty"`
	Type           string       `json:"type"`
	Subtype        string       `json:"subtype,omitempty"`
	TeamID         int64        `json:"teamId,omitempty"`
	Team           string       `json:"team,omitempty"`
	PlayerID       int64        `json:"playerId,omitempty"`
	Player         string       `json:"player,omitempty"`
	Position       string       `json:"position,omitempty"`
	PossessionTeam string       `json:"possessionTeam,omitempty"`
	Location       *locationDTO `json:"location,omitempty"`
	UnderPressure  bool         `json:"underPressure,omitempty"`
	Outcome        string       `json:"outcome,omitempty"`
	CardType       string       `json:"cardType,omitempty"`
	Recipient      string       `json:"recipient,omitempty"`
	ShotAssist     bool         `json:"shotAssist,omitempty"`
	GoalAssist     bool         `json:"goalAssist,omitempty"`
	ExpectedGoals  float64      `json:"expectedGoals,omitempty"`
	Replacement    string       `json:"replacement,omitempty"`
	RelatedEvents  []string     `json:"relatedEvents,omitempty"`
}

type eventListDTO struct {
	MatchID int64          `json:"matchId"`
	Total   int            `json:"total"`
	Counts  map[string]int `json:"counts"`
	Events  []eventDTO     `json:"events"`
}

type spellDTO struct {
	Position    string `json:"position"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
	StartReason string `json:"startReason,omitempty"`
	EndReason   string `json:"endReason,omitempty"`
}

type lineupCardDTO struct {
	Time     string `json:"time,omitempty"`
	CardType string `json:"cardType"`
	Reason   string `json:"reason,omitempty"`
}

type lineupPlayerDTO struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Nickname      string          `json:"nickname,omitempty"`
	JerseyNumber  int             `json:"jerseyNumber"`
	Country       string          `json:"country,omitempty"`
	Position      string          `json:"position,omitempty"`
	Starter       bool            `json:"starter"`
	MinutesPlayed int             `json:"minutesPlayed"`
	Positions     []spellDTO      `json:"positions,omitempty"`
	Cards         []lineupCardDTO `json:"cards,omitempty"`
	Stats         *playerStatsDTO `json:"stats,omitempty"`
}

type teamLineupDTO struct {
	TeamID   int64             `json:"teamId"`
	TeamName string            `json:"teamName"`
	Players  []lineupPlayerDTO `json:"players"`
}

type matchDataDTO struct {
	Match   matchDTO        `json:"match"`
	Events  []eventDTO      `json:"events"`
	Lineups []teamLineupDTO `json:"lineups"`
}

type goalDTO struct {
	Minute  int    `json:"minute"`
	Period  int    `json:"period"`
	Scorer  string `json:"scorer"`
	Team    string `json:"team"`
	Assist  string `json:"assist,omitempty"`
	OwnGoal bool   `json:"ownGoal"`
}

type cardDTO struct {
	Minute   int    `json:"minute"`
	Period   int    `json:"period"`
	Player   string `json:"player"`
	Team     string `json:"team"`
	CardType string `json:"cardType"`
}

type substitutionDTO struct {
	Minute    int    `json:"minute"`
	Period    int    `json:"period"`
	Team      string `json:"team"`
	PlayerOut string `json:"playerOut"`
	PlayerIn  string `json:"playerIn"`
}

type teamStatsDTO struct {
	Team            string  `json:"team"`
	Passes          int     `json:"passes"`
	PassesCompleted int     `json:"passesCompleted"`
	PassAccuracy    float64 `json:"passAccuracy"`
	Shots           int     `json:"shots"`
	ShotsOnTarget   int     `json:"shotsOnTarget"`
	Goals           int     `json:"goals"`
	ExpectedGoals   float64 `json:"expectedGoals"`
	Tackles         int     `json:"tackles"`
	Interceptions   int     `json:"interceptions"`
	Fouls           int     `json:"fouls"`
	YellowCards     int     `json:"yellowCards"`
	RedCards        int     `json:"redCards"`
	Possession      float64 `json:"possession"`
}

type matchSummaryDTO struct {
	Match         matchDTO          `json:"match"`
	Score         string            `json:"score"`
	Goals         []goalDTO         `json:"goals"`
	Cards         []cardDTO         `json:"cards"`
	Substitutions []substitutionDTO `json:"substitutions"`
	Shootout      *shootoutDTO      `json:"shootout,omitempty"`
	Teams         []teamStatsDTO    `json:"teams"`
	EventCounts   map[string]int    `json:"eventCounts"`
	TotalEvents   int               `json:"totalEvents"`
	MatchMinutes  int               `json:"matchMinutes"`
}

type shootoutKickDTO struct {
	Order  int    `json:"order"`
	Player string `json:"player"`
	Team   string `json:"team"`
	Scored bool   `json:"scored"`
}

type shootoutDTO struct {
	Score string            `json:"score"`
	Kicks []shootoutKickDTO `json:"kicks"`
}

type narrationDTO struct {
	ID            string `json:"id,omitempty"`
	MatchID       int64  `json:"matchId"`
	PlayerID      int64  `json:"playerId,omitempty"`
	Kind          string `json:"kind"`
	Style         string `json:"style,omitempty"`
	Narrative     string `json:"narrative"`
	Provider      string `json:"provider,omitempty"`
	Fallback      bool   `json:"fallback"`
	EventsSummary string `json:"eventsSummary,omitempty"`
	GeneratedAt   string `json:"generatedAt"`
}

type passesDTO struct {
	Total      int     `json:"total"`
	Successful int     `json:"successful"`
	Accuracy   float64 `json:"accuracy"`
	KeyPasses  int     `json:"keyPasses"`
}

type shotsDTO struct {
	Total         int     `json:"total"`
	OnTarget      int     `json:"onTarget"`
	Goals         int     `json:"goals"`
	ExpectedGoals float64 `json:"expectedGoals"`
}

type tacklesDTO struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
}

type playerCardsDTO struct {
	Yellow int `json:"yellow"`
	Red    int `json:"red"`
}

type playerStatsDTO struct {
	Passes           passesDTO      `json:"passes"`
	Shots            shotsDTO       `json:"shots"`
	Tackles          tacklesDTO     `json:"tackles"`
	Interceptions    int            `json:"interceptions"`
	Assists          int            `json:"assists"`
	Cards            playerCardsDTO `json:"cards"`
	EventsFirstHalf  int            `json:"eventsFirstHalf"`
	EventsSecondHalf int            `json:"eventsSecondHalf"`
	TotalEvents      int            `json:"totalEvents"`
	MinutesPlayed    int            `json:"minutesPlayed"`
	ActionsByType    map[string]int `json:"actionsByType,omitempty"`
}

type playerSummaryDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Nickname     string `json:"nickname,omitempty"`
	Team         string `json:"team"`
	JerseyNumber int    `json:"jerseyNumber,omitempty"`
	Position     string `json:"position,omitempty"`
	Country      string `json:"country,omitempty"`
	Starter      bool   `json:"starter"`
}

type playerProfileDTO struct {
	MatchID      int64          `json:"matchId"`
	Match        string         `json:"match"`
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Nickname     string         `json:"nickname,omitempty"`
	Team         string         `json:"team"`
	Opponent     string         `json:"opponent,omitempty"`
	JerseyNumber int            `json:"jerseyNumber,omitempty"`
	Position     string         `json:"position,omitempty"`
	Country      string         `json:"country,omitempty"`
	Starter      bool           `json:"starter"`
	Stats        playerStatsDTO `json:"stats"`
	Analysis     *narrationDTO  `json:"analysis,omitempty"`
}

type warmCacheTaskDTO struct {
	MatchID    int64  `json:"matchId"`
	Status     string `json:"status"`
	Events     int    `json:"events"`
	Lineups    int    `json:"lineups"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

type warmCacheResultDTO struct {
	CompetitionID int64              `json:"competitionId"`
	SeasonID      int64              `json:"seasonId"`
	Matches       int                `json:"matches"`
	SuccessCount  int                `json:"successCount"`
	FailedCount   int                `json:"failedCount"`
	Tasks         []warmCacheTaskDTO `json:"tasks"`
}

func competitionToDTO(v match.Competition) competitionDTO {
	return competitionDTO{
		CompetitionID: v.CompetitionID,
		SeasonID:      v.SeasonID,
		Name:          v.Name,
		SeasonName:    v.SeasonName,
		Country:       v.Country,
		Gender:        v.Gender,
		International: v.International,
	}
}

func matchToDTO(ctx context.Context, v match.Match) matchDTO {
	_, span := startSpan(ctx, "httpapi.matchToDTO")
	defer span.End()

	return matchDTO{
		ID:               v.ID,
		CompetitionID:    v.CompetitionID,
		Competition:      v.CompetitionName,
		SeasonID:         v.SeasonID,
		Season:           v.SeasonName,
		Date:             formatDate(v.Date),
		KickOff:          v.KickOff,
		HomeTeamID:       v.HomeTeamID,
		HomeTeam:         v.HomeTeam,
		AwayTeamID:       v.AwayTeamID,
		AwayTeam:         v.AwayTeam,
		HomeScore:        v.HomeScore,
		AwayScore:        v.AwayScore,
		Score:            v.Score(),
		Stadium:          v.Stadium,
		Referee:          v.Referee,
		CompetitionStage: v.CompetitionStage,
		MatchWeek:        v.MatchWeek,
		Status:           v.Status,
	}
}

func eventToDTO(v event.Event) eventDTO {
	out := eventDTO{
		ID:             v.ID,
		Index:          v.Index,
		Period:         v.Period,
		Minute:         v.Minute,
		Second:         v.Second,
		Timestamp:      v.Timestamp,
		Type:           string(v.Type),
		Subtype:        v.Subtype,
		TeamID:         v.TeamID,
		Team:           v.TeamName,
		PlayerID:       v.PlayerID,
		Player:         v.PlayerName,
		Position:       v.Position,
		PossessionTeam: v.PossessionTeam,
		UnderPressure:  v.UnderPressure,
		Outcome:        v.Outcome,
		CardType:       v.CardType,
		Recipient:      v.Recipient,
		ShotAssist:     v.ShotAssist,
		GoalAssist:     v.GoalAssist,
		ExpectedGoals:  round3(v.ExpectedGoals),
		Replacement:    v.Replacement,
		RelatedEvents:  v.RelatedEvents,
	}
	if v.Location != nil {
		out.Location = &locationDTO{X: v.Location.X, Y: v.Location.Y}
	}
	return out
}

func eventsToDTO(items []event.Event) []eventDTO {
	out := make([]eventDTO, 0, len(items))
	for _, item := range items {
		out = append(out, eventToDTO(item))
	}
	return out
}

func countsToDTO(counts map[event.Type]int) map[string]int {
	out := make(map[string]int, len(counts))
	for k, v := range counts {
		out[string(k)] = v
	}
	return out
}

func lineupPlayerToDTO(item lineup.Player, minutes int, stats *playerstats.Stats) lineupPlayerDTO {
	out := lineupPlayerDTO{
		ID:            item.ID,
		Name:          item.Name,
		Nickname:      item.Nickname,
		JerseyNumber:  item.JerseyNumber,
		Country:       item.Country,
		Position:      item.PrimaryPosition(),
		Starter:       item.Starter(),
		MinutesPlayed: minutes,
	}
	for _, spell := range item.Positions {
		out.Positions = append(out.Positions, spellDTO{
			Position:    spell.Position,
			From:        spell.From,
			To:          spell.To,
			StartReason: spell.StartReason,
			EndReason:   spell.EndReason,
		})
	}
	for _, card := range item.Cards {
		out.Cards = append(out.Cards, lineupCardDTO{Time: card.Time, CardType: card.CardType, Reason: card.Reason})
	}
	if stats != nil {
		dto := playerStatsToDTO(*stats)
		out.Stats = &dto
	}
	return out
}

func teamLineupViewsToDTO(ctx context.Context, items []usecase.TeamLineupView) []teamLineupDTO {
	_, span := startSpan(ctx, "httpapi.teamLineupViewsToDTO")
	defer span.End()

	out := make([]teamLineupDTO, 0, len(items))
	for _, team := range items {
		dto := teamLineupDTO{
			TeamID:   team.TeamID,
			TeamName: team.TeamName,
			Players:  make([]lineupPlayerDTO, 0, len(team.Players)),
		}
		for _, row := range team.Players {
			dto.Players = append(dto.Players, lineupPlayerToDTO(row.Player, row.MinutesPlayed, row.Stats))
		}
		out = append(out, dto)
	}
	return out
}

func matchDataToDTO(ctx context.Context, v usecase.MatchData) matchDataDTO {
	ctx, span := startSpan(ctx, "httpapi.matchDataToDTO")
	defer span.End()

	lineups := make([]teamLineupDTO, 0, len(v.Lineups))
	for _, team := range v.Lineups {
		dto := teamLineupDTO{
			TeamID:   team.TeamID,
			TeamName: team.TeamName,
			Players:  make([]lineupPlayerDTO, 0, len(team.Players)),
		}
		for _, item := range team.Players {
			dto.Players = append(dto.Players, lineupPlayerToDTO(item, item.MinutesPlayed(0), nil))
		}
		lineups = append(lineups, dto)
	}

	return matchDataDTO{
		Match:   matchToDTO(ctx, v.Match),
		Events:  eventsToDTO(v.Events),
		Lineups: lineups,
	}
}

func teamStatsToDTO(v teamstats.Stats) teamStatsDTO {
	return teamStatsDTO{
		Team:            v.TeamName,
		Passes:          v.Passes,
		PassesCompleted: v.PassesCompleted,
		PassAccuracy:    round1(v.PassAccuracy),
		Shots:           v.Shots,
		ShotsOnTarget:   v.ShotsOnTarget,
		Goals:           v.Goals,
		ExpectedGoals:   round3(v.ExpectedGoals),
		Tackles:         v.Tackles,
		Interceptions:   v.Interceptions,
		Fouls:           v.Fouls,
		YellowCards:     v.YellowCards,
		RedCards:        v.RedCards,
		Possession:      round1(v.Possession),
	}
}

func matchSummaryToDTO(ctx context.Context, v usecase.MatchSummary) matchSummaryDTO {
	ctx, span := startSpan(ctx, "httpapi.matchSummaryToDTO")
	defer span.End()

	out := matchSummaryDTO{
		Match:         matchToDTO(ctx, v.Summary.Match),
		Score:         v.Summary.Match.Score(),
		Goals:         make([]goalDTO, 0, len(v.Summary.Goals)),
		Cards:         make([]cardDTO, 0, len(v.Summary.Cards)),
		Substitutions: make([]substitutionDTO, 0, len(v.Summary.Substitutions)),
		Teams:         make([]teamStatsDTO, 0, len(v.Teams)),
		EventCounts:   countsToDTO(v.EventCounts),
		TotalEvents:   v.TotalEvents,
		MatchMinutes:  v.MatchMinutes,
	}
	for _, goal := range v.Summary.Goals {
		out.Goals = append(out.Goals, goalDTO{
			Minute:  goal.Minute,
			Period:  goal.Period,
			Scorer:  goal.Scorer,
			Team:    goal.Team,
			Assist:  goal.Assist,
			OwnGoal: goal.OwnGoal,
		})
	}
	for _, card := range v.Summary.Cards {
		out.Cards = append(out.Cards, cardDTO{Minute: card.Minute, Period: card.Period, Player: card.Player, Team: card.Team, CardType: card.CardType})
	}
	for _, sub := range v.Summary.Substitutions {
		out.Substitutions = append(out.Substitutions, substitutionDTO{
			Minute:    sub.Minute,
			Period:    sub.Period,
			Team:      sub.Team,
			PlayerOut: sub.PlayerOut,
			PlayerIn:  sub.PlayerIn,
		})
	}
	if len(v.Summary.Shootout) > 0 {
		home, away := v.Summary.ShootoutScore()
		shootout := &shootoutDTO{
			Score: strconv.Itoa(home) + "-" + strconv.Itoa(away),
			Kicks: make([]shootoutKickDTO, 0, len(v.Summary.Shootout)),
		}
		for _, kick := range v.Summary.Shootout {
			shootout.Kicks = append(shootout.Kicks, shootoutKickDTO{Order: kick.Order, Player: kick.Player, Team: kick.Team, Scored: kick.Scored})
		}
		out.Shootout = shootout
	}
	for _, team := range v.Teams {
		out.Teams = append(out.Teams, teamStatsToDTO(team))
	}
	return out
}

func narrationToDTO(v narrative.Narration) narrationDTO {
	return narrationDTO{
		ID:            v.ID,
		MatchID:       v.MatchID,
		PlayerID:      v.PlayerID,
		Kind:          string(v.Kind),
		Style:         string(v.Style),
		Narrative:     v.Text,
		Provider:      v.Provider,
		Fallback:      v.Fallback,
		EventsSummary: v.EventsSummary,
		GeneratedAt:   v.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

func playerStatsToDTO(v playerstats.Stats) playerStatsDTO {
	return playerStatsDTO{
		Passes: passesDTO{
			Total:      v.Passes.Total,
			Successful: v.Passes.Successful,
			Accuracy:   v.Passes.Accuracy,
			KeyPasses:  v.Passes.KeyPasses,
		},
		Shots: shotsDTO{
			Total:         v.Shots.Total,
			OnTarget:      v.Shots.OnTarget,
			Goals:         v.Shots.Goals,
			ExpectedGoals: round3(v.Shots.ExpectedGoals),
		},
		Tackles:          tacklesDTO{Total: v.Tackles.Total, Successful: v.Tackles.Successful},
		Interceptions:    v.Interceptions,
		Assists:          v.Assists,
		Cards:            playerCardsDTO{Yellow: v.Cards.Yellow, Red: v.Cards.Red},
		EventsFirstHalf:  v.EventsFirstHalf,
		EventsSecondHalf: v.EventsSecondHalf,
		TotalEvents:      v.TotalEvents,
		MinutesPlayed:    v.MinutesPlayed,
		ActionsByType:    countsToDTO(v.ActionsByType),
	}
}

func playerSummaryToDTO(v usecase.PlayerSummary) playerSummaryDTO {
	return playerSummaryDTO{
		ID:           v.ID,
		Name:         v.Name,
		Nickname:     v.Nickname,
		Team:         v.TeamName,
		JerseyNumber: v.JerseyNumber,
		Position:     v.Position,
		Country:      v.Country,
		Starter:      v.Starter,
	}
}

func playerProfileToDTO(ctx context.Context, v usecase.PlayerProfile) playerProfileDTO {
	_, span := startSpan(ctx, "httpapi.playerProfileToDTO")
	defer span.End()

	return playerProfileDTO{
		MatchID:      v.Match.ID,
		Match:        v.Match.Title(),
		ID:           v.PlayerID,
		Name:         v.Name,
		Nickname:     v.Nickname,
		Team:         v.TeamName,
		Opponent:     v.Match.Opponent(v.TeamName),
		JerseyNumber: v.JerseyNumber,
		Position:     v.Position,
		Country:      v.Country,
		Starter:      v.Starter,
		Stats:        playerStatsToDTO(v.Stats),
	}
}

func warmCacheResultToDTO(v usecase.WarmCacheResult) warmCacheResultDTO {
	out := warmCacheResultDTO{
		CompetitionID: v.CompetitionID,
		SeasonID:      v.SeasonID,
		Matches:       v.Matches,
		SuccessCount:  v.SuccessCount,
		FailedCount:   v.FailedCount,
		Tasks:         make([]warmCacheTaskDTO, 0, len(v.Tasks)),
	}
	for _, task := range v.Tasks {
		out.Tasks = append(out.Tasks, warmCacheTaskDTO{
			MatchID:    task.MatchID,
			Status:     task.Status,
			Events:     task.Events,
			Lineups:    task.Lineups,
			Message:    task.Message,
			DurationMs: task.DurationMs,
		})
	}
	return out
}

// parsePositiveID reads a path or query id; blank and non-positive values are
// rejected with the field name in the message.
func parsePositiveID(field, raw string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, field)
	}
	return value, nil
}

func parseOptionalBool(field, raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false", usecase.ErrInvalidInput, field)
	}
	return value, nil
}

// parseEventTypes accepts repeated and comma separated type values.
func parseEventTypes(values []string) []event.Type {
	seen := make(map[event.Type]struct{}, len(values))
	out := make([]event.Type, 0, len(values))
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			t := event.ParseType(part)
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func formatDate(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.Format(time.DateOnly)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
