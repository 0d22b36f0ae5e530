package httpapi

import (
	"net/http"
	"strings"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/event"
)

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitions")
	defer span.End()

	items, err := h.competitionService.ListCompetitions(ctx, r.URL.Query().Get("q"))
	if err != nil {
		h.logger.WarnContext(ctx, "list competitions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]competitionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, competitionToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	competitionID, err := parsePositiveID("competitionID", r.PathValue("competitionID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	seasonID, err := parsePositiveID("seasonID", r.PathValue("seasonID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.competitionService.ListMatches(ctx, competitionID, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "competition_id", competitionID, "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID, err := parsePositiveID("matchID", r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	data, err := h.matchService.GetMatchData(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match data failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchDataToDTO(ctx, data))
}

func (h *Handler) ListMatchEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchEvents")
	defer span.End()

	matchID, err := parsePositiveID("matchID", r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	query := r.URL.Query()
	filter := event.Filter{
		TeamName: strings.TrimSpace(query.Get("team")),
		Types:    parseEventTypes(query["type"]),
	}
	if raw := strings.TrimSpace(query.Get("player_id")); raw != "" {
		filter.PlayerID, err = parsePositiveID("player_id", raw)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	list, err := h.matchService.ListEvents(ctx, matchID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list match events failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventListDTO{
		MatchID: list.MatchID,
		Total:   len(list.Events),
		Counts:  countsToDTO(list.Counts),
		Events:  eventsToDTO(list.Events),
	})
}

func (h *Handler) GetMatchSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchSummary")
	defer span.End()

	matchID, err := parsePositiveID("matchID", r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.matchService.GetSummary(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match summary failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchSummaryToDTO(ctx, summary))
}

func (h *Handler) ListMatchLineups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchLineups")
	defer span.End()

	matchID, err := parsePositiveID("matchID", r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	includeStats, err := parseOptionalBool("include_stats", r.URL.Query().Get("include_stats"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	team := r.URL.Query().Get("team")
	items, err := h.matchService.ListLineups(ctx, matchID, team, includeStats)
	if err != nil {
		h.logger.WarnContext(ctx, "list match lineups failed", "match_id", matchID, "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamLineupViewsToDTO(ctx, items))
}
