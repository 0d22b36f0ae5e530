package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	matchID, err := h.matchIDFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.playerService.ListPlayers(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]playerSummaryDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerSummaryToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

// GetPlayerProfile optionally attaches the generated analysis when
// include_analysis=true.
func (h *Handler) GetPlayerProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerProfile")
	defer span.End()

	matchID, err := parsePositiveID("matchID", r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	h.writePlayerProfile(w, r.WithContext(ctx), matchID)
}

// GetDefaultPlayerProfile serves the profile route that takes the match from
// the match_id query parameter, falling back to the configured match.
func (h *Handler) GetDefaultPlayerProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDefaultPlayerProfile")
	defer span.End()

	matchID, err := h.matchIDFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	h.writePlayerProfile(w, r.WithContext(ctx), matchID)
}

func (h *Handler) writePlayerProfile(w http.ResponseWriter, r *http.Request, matchID int64) {
	ctx := r.Context()

	playerID, err := parsePositiveID("playerID", r.PathValue("playerID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	includeAnalysis, err := parseOptionalBool("include_analysis", r.URL.Query().Get("include_analysis"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if includeAnalysis {
		result, err := h.narrativeService.PlayerAnalysis(ctx, matchID, playerID)
		if err != nil {
			h.logger.WarnContext(ctx, "get player profile with analysis failed", "match_id", matchID, "player_id", playerID, "error", err)
			writeError(ctx, w, err)
			return
		}
		dto := playerProfileToDTO(ctx, result.Profile)
		analysis := narrationToDTO(result.Narration)
		dto.Analysis = &analysis
		writeSuccess(ctx, w, http.StatusOK, dto)
		return
	}

	profile, err := h.playerService.GetProfile(ctx, matchID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player profile failed", "match_id", matchID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerProfileToDTO(ctx, profile))
}

func (h *Handler) matchIDFromQuery(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("match_id"))
	if raw == "" {
		return h.defaultMatchID, nil
	}
	return parsePositiveID("match_id", raw)
}
