package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/narrative"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/usecase"
)

const maxChatBodyBytes = 64 << 10

func (h *Handler) GetMatchNarrative(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchNarrative")
	defer span.End()

	matchID, err := parsePositiveID("matchID", r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	style, err := narrative.ParseStyle(r.URL.Query().Get("style"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %w", usecase.ErrInvalidInput, err))
		return
	}

	item, err := h.narrativeService.MatchNarrative(ctx, matchID, style)
	if err != nil {
		h.logger.WarnContext(ctx, "get match narrative failed", "match_id", matchID, "style", string(style), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, narrationToDTO(item))
}

func (h *Handler) GetMatchAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchAnalysis")
	defer span.End()

	matchID, err := parsePositiveID("matchID", r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.narrativeService.MatchAnalysis(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match analysis failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, narrationToDTO(item))
}

func (h *Handler) ListMatchNarrations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchNarrations")
	defer span.End()

	matchID, err := parsePositiveID("matchID", r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be positive integer", usecase.ErrInvalidInput))
			return
		}
		limit = v
	}

	items, err := h.narrativeService.ListNarrations(ctx, matchID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list narrations failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]narrationDTO, 0, len(items))
	for _, item := range items {
		out = append(out, narrationToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetPlayerAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerAnalysis")
	defer span.End()

	matchID, err := parsePositiveID("matchID", r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID, err := parsePositiveID("playerID", r.PathValue("playerID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.narrativeService.PlayerAnalysis(ctx, matchID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player analysis failed", "match_id", matchID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := playerProfileToDTO(ctx, result.Profile)
	analysis := narrationToDTO(result.Narration)
	dto.Analysis = &analysis
	writeSuccess(ctx, w, http.StatusOK, dto)
}

func (h *Handler) ChatAboutMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ChatAboutMatch")
	defer span.End()

	matchID, err := parsePositiveID("matchID", r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req chatRequest
	decoder := jsoniter.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	history := make([]narrative.Message, 0, len(req.History))
	for _, message := range req.History {
		history = append(history, narrative.Message{
			Role:    narrative.Role(message.Role),
			Content: message.Content,
		})
	}

	item, err := h.narrativeService.Chat(ctx, matchID, usecase.ChatInput{
		Question: req.Question,
		History:  history,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "chat about match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, narrationToDTO(item))
}
