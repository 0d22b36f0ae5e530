package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/narrative"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/logging"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/usecase"
)

// HandlerConfig carries the services and presentation settings of the API.
type HandlerConfig struct {
	Competitions   *usecase.CompetitionService
	Matches        *usecase.MatchService
	Players        *usecase.PlayerService
	Narratives     *usecase.NarrativeService
	CacheWarm      *usecase.CacheWarmService
	DefaultMatchID int64
	ServiceVersion string
	SwaggerEnabled bool
	Logger         *logging.Logger
}

type Handler struct {
	competitionService *usecase.CompetitionService
	matchService       *usecase.MatchService
	playerService      *usecase.PlayerService
	narrativeService   *usecase.NarrativeService
	cacheWarmService   *usecase.CacheWarmService
	defaultMatchID     int64
	serviceVersion     string
	swaggerEnabled     bool
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		competitionService: cfg.Competitions,
		matchService:       cfg.Matches,
		playerService:      cfg.Players,
		narrativeService:   cfg.Narratives,
		cacheWarmService:   cfg.CacheWarm,
		defaultMatchID:     cfg.DefaultMatchID,
		serviceVersion:     cfg.ServiceVersion,
		swaggerEnabled:     cfg.SwaggerEnabled,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Welcome")
	defer span.End()

	styles := make([]string, 0, 3)
	for _, style := range narrative.Styles() {
		styles = append(styles, string(style))
	}

	dto := welcomeDTO{
		Message: "Match Analysis API",
		Version: h.serviceVersion,
		Styles:  styles,
		Features: []string{
			"match raw data",
			"match summary",
			"match narrative",
			"player profile",
			"player analysis",
			"chat assistant",
		},
	}
	if h.swaggerEnabled {
		dto.DocsURL = "/docs"
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}
