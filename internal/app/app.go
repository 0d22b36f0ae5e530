package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/GiovanoMP/at-des-data-driven-apps/external/llm"
	"github.com/GiovanoMP/at-des-data-driven-apps/external/statsbomb"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/config"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/event"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/lineup"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/match"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/narrative"
	repocache "github.com/GiovanoMP/at-des-data-driven-apps/internal/infrastructure/repository/cache"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/infrastructure/repository/memory"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/infrastructure/repository/postgres"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/interfaces/httpapi"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/observability"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/cache"
	idgen "github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/id"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/logging"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/resilience"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/usecase"
)

type repositories struct {
	matches    match.Repository
	events     event.Repository
	lineups    lineup.Repository
	narrations narrative.Repository
}

// NewHTTPServer builds the API server. The returned cleanup releases the
// database and redis connections and must run after the server stops.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("cleanup failed", "error", err)
			}
		}
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}
	onStateChange := func(name string, from, to resilience.CircuitState) {
		logger.Warn("circuit breaker state changed", "breaker", name, "from", string(from), "to", string(to))
		if metrics != nil {
			metrics.ObserveCircuitState(name, from, to)
		}
	}

	var payloads cache.PayloadCache
	if cfg.RedisEnabled {
		redisCache, err := cache.NewRedisPayloadCache(ctx, cache.RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			TTL:       cfg.RedisTTL,
			KeyPrefix: cfg.RedisKeyPrefix,
		})
		if err != nil {
			logger.Warn("redis payload cache unavailable, continuing without it", "addr", cfg.RedisAddr, "error", err)
		} else {
			payloads = redisCache
			closers = append(closers, redisCache.Close)
		}
	}

	repos := buildMatchRepositories(cfg, logger, payloads, onStateChange)

	if cfg.NarrationArchiveEnabled {
		db, err := openDB(cfg)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, db.Close)
		repos.narrations = postgres.NewNarrationRepository(db)
		logger.Info("narration archive uses postgres", "db", dbNameFromURL(cfg.DBURL))
	} else {
		repos.narrations = memory.NewNarrationRepository(cfg.NarrationMemoryLimit)
	}

	catalog := make([]usecase.CatalogEntry, 0, len(cfg.StatsBombCatalog))
	for _, ref := range cfg.StatsBombCatalog {
		catalog = append(catalog, usecase.CatalogEntry{CompetitionID: ref.CompetitionID, SeasonID: ref.SeasonID})
	}

	competitionSvc := usecase.NewCompetitionService(repos.matches)
	matchSvc := usecase.NewMatchService(repos.matches, repos.events, repos.lineups, catalog, logger)
	playerSvc := usecase.NewPlayerService(matchSvc)

	narrativeCfg := usecase.NarrativeServiceConfig{
		Settings: narrative.Settings{MaxTokens: cfg.LLMMaxTokens, Temperature: cfg.LLMTemperature},
		Logger:   logger,
	}
	if metrics != nil {
		narrativeCfg.Recorder = metrics
	}
	generators := buildTextGenerators(cfg, logger, onStateChange)
	if len(generators) == 0 {
		logger.Warn("no llm provider configured, narratives will use the placeholder text")
	}
	narrativeSvc := usecase.NewNarrativeService(matchSvc, playerSvc, generators, repos.narrations, idgen.NewUUIDGenerator(), narrativeCfg)
	cacheWarmSvc := usecase.NewCacheWarmService(repos.matches, repos.events, repos.lineups, cfg.WarmCacheWorkers, logger)

	handler := httpapi.NewHandler(httpapi.HandlerConfig{
		Competitions:   competitionSvc,
		Matches:        matchSvc,
		Players:        playerSvc,
		Narratives:     narrativeSvc,
		CacheWarm:      cacheWarmSvc,
		DefaultMatchID: cfg.DefaultMatchID,
		ServiceVersion: cfg.ServiceVersion,
		SwaggerEnabled: cfg.SwaggerEnabled,
		Logger:         logger,
	})

	routerCfg := httpapi.RouterConfig{
		Logger:             logger,
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	}
	if metrics != nil {
		routerCfg.Metrics = metrics
	}

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, routerCfg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, cleanup, nil
}

func buildMatchRepositories(cfg config.Config, logger *logging.Logger, payloads cache.PayloadCache, onStateChange resilience.StateChangeFunc) repositories {
	var repos repositories
	if cfg.StatsBombEnabled {
		client := statsbomb.NewClient(statsbomb.ClientConfig{
			BaseURL:        cfg.StatsBombBaseURL,
			Timeout:        cfg.StatsBombTimeout,
			MaxRetries:     cfg.StatsBombMaxRetries,
			RetryDelay:     cfg.StatsBombRetryDelay,
			Logger:         logger,
			CircuitBreaker: circuitBreakerConfig(cfg.StatsBombCircuit, onStateChange),
			PayloadCache:   payloads,
		})
		repos.matches = statsbomb.NewMatchRepository(client)
		repos.events = statsbomb.NewEventRepository(client)
		repos.lineups = statsbomb.NewLineupRepository(client)
		logger.Info("match data uses statsbomb open data", "base_url", cfg.StatsBombBaseURL)
	} else {
		repos.matches = memory.NewMatchRepository(memory.SeedCompetitions(), memory.SeedMatches())
		repos.events = memory.NewEventRepository(map[int64][]event.Event{memory.SampleMatchID: memory.SeedEvents()})
		repos.lineups = memory.NewLineupRepository(map[int64][]lineup.TeamLineup{memory.SampleMatchID: memory.SeedLineups()})
		logger.Info("match data uses the seeded sample", "match_id", memory.SampleMatchID)
	}

	if cfg.CacheEnabled {
		store := cache.NewStore(cfg.CacheTTL, cfg.CacheMaxEntries)
		repos.matches = repocache.NewMatchRepository(repos.matches, store)
		repos.events = repocache.NewEventRepository(repos.events, store)
		repos.lineups = repocache.NewLineupRepository(repos.lineups, store)
	}

	return repos
}

// buildTextGenerators keeps the LLM_PROVIDERS order and skips providers
// without an API key.
func buildTextGenerators(cfg config.Config, logger *logging.Logger, onStateChange resilience.StateChangeFunc) []usecase.TextGenerator {
	transportCfg := llm.TransportConfig{
		Timeout:        cfg.LLMTimeout,
		MaxRetries:     cfg.LLMMaxRetries,
		Logger:         logger,
		CircuitBreaker: circuitBreakerConfig(cfg.LLMCircuit, onStateChange),
	}

	out := make([]usecase.TextGenerator, 0, len(cfg.LLMProviders))
	for _, provider := range cfg.LLMProviders {
		switch provider {
		case "openai":
			if cfg.OpenAIAPIKey == "" {
				logger.Info("llm provider skipped", "provider", provider, "reason", "OPENAI_API_KEY empty")
				continue
			}
			out = append(out, llm.NewOpenAIClient(llm.OpenAIConfig{
				APIKey:    cfg.OpenAIAPIKey,
				BaseURL:   cfg.OpenAIBaseURL,
				Model:     cfg.OpenAIModel,
				Transport: transportCfg,
			}))
		case "gemini":
			if cfg.GoogleAPIKey == "" {
				logger.Info("llm provider skipped", "provider", provider, "reason", "GOOGLE_API_KEY empty")
				continue
			}
			out = append(out, llm.NewGeminiClient(llm.GeminiConfig{
				APIKey:    cfg.GoogleAPIKey,
				BaseURL:   cfg.GeminiBaseURL,
				Model:     cfg.GeminiModel,
				Transport: transportCfg,
			}))
		}
	}
	return out
}

func circuitBreakerConfig(cfg config.CircuitConfig, onStateChange resilience.StateChangeFunc) resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		Enabled:          cfg.Enabled,
		FailureThreshold: cfg.FailureCount,
		OpenTimeout:      cfg.OpenTimeout,
		HalfOpenMaxReq:   cfg.HalfOpenMaxReq,
		OnStateChange:    onStateChange,
	}
}
