package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/usecase"
)

func (h *Handler) RunWarmCacheJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunWarmCacheJob")
	defer span.End()

	if h.cacheWarmService == nil {
		writeError(ctx, w, fmt.Errorf("%w: cache warm job is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeWarmCacheRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.cacheWarmService.WarmSeason(ctx, usecase.WarmCacheInput{
		CompetitionID: req.CompetitionID,
		SeasonID:      req.SeasonID,
		Limit:         req.Limit,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run warm cache job failed",
			"competition_id", req.CompetitionID,
			"season_id", req.SeasonID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, warmCacheResultToDTO(result))
}

func decodeWarmCacheRequest(r *http.Request) (warmCacheRequest, error) {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req warmCacheRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return warmCacheRequest{}, fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return warmCacheRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
