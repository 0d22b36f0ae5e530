package httpapi

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/event"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/lineup"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/narrative"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/infrastructure/repository/memory"
	usecasemock "github.com/GiovanoMP/at-des-data-driven-apps/internal/mocks/usecase"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/id"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/logging"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/usecase"
)

const testJobToken = "job-secret"

type envelope[T any] struct {
	APIVersion string          `json:"apiVersion"`
	Data       T               `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

type requestObserverStub struct {
	routes []string
}

func (s *requestObserverStub) ObserveHTTPRequest(route, _ string, _ int, _ time.Duration) {
	s.routes = append(s.routes, route)
}

func (s *requestObserverStub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics\n"))
	})
}

func newTestRouter(t *testing.T, generators ...usecase.TextGenerator) (http.Handler, *requestObserverStub) {
	t.Helper()

	logger := logging.NewNop()
	matchRepo := memory.NewMatchRepository(memory.SeedCompetitions(), memory.SeedMatches())
	eventRepo := memory.NewEventRepository(map[int64][]event.Event{memory.SampleMatchID: memory.SeedEvents()})
	lineupRepo := memory.NewLineupRepository(map[int64][]lineup.TeamLineup{memory.SampleMatchID: memory.SeedLineups()})
	narrationRepo := memory.NewNarrationRepository(10)

	matches := usecase.NewMatchService(matchRepo, eventRepo, lineupRepo, []usecase.CatalogEntry{
		{CompetitionID: memory.SampleCompetitionID, SeasonID: memory.SampleSeasonID},
	}, logger)
	players := usecase.NewPlayerService(matches)
	narratives := usecase.NewNarrativeService(matches, players, generators, narrationRepo, id.NewUUIDGenerator(),
		usecase.NarrativeServiceConfig{Logger: logger})

	handler := NewHandler(HandlerConfig{
		Competitions:   usecase.NewCompetitionService(matchRepo),
		Matches:        matches,
		Players:        players,
		Narratives:     narratives,
		CacheWarm:      usecase.NewCacheWarmService(matchRepo, eventRepo, lineupRepo, 2, logger),
		DefaultMatchID: memory.SampleMatchID,
		ServiceVersion: "test",
		SwaggerEnabled: true,
		Logger:         logger,
	})

	observer := &requestObserverStub{}
	router := NewRouter(handler, RouterConfig{
		Logger:           logger,
		SwaggerEnabled:   true,
		InternalJobToken: testJobToken,
		Metrics:          observer,
	})
	return router, observer
}

func serve(t *testing.T, router http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var out envelope[T]
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func failingGenerator(t *testing.T, name string) *usecasemock.TextGenerator {
	t.Helper()

	gen := usecasemock.NewTextGenerator(t)
	gen.On("Name").Return(name).Maybe()
	gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("status=503")).Maybe()
	return gen
}

func workingGenerator(t *testing.T, name, text string) *usecasemock.TextGenerator {
	t.Helper()

	gen := usecasemock.NewTextGenerator(t)
	gen.On("Name").Return(name).Maybe()
	gen.On("Generate", mock.Anything, mock.Anything).Return(text, nil).Maybe()
	return gen
}

func TestRouter_SystemRoutes(t *testing.T) {
	t.Parallel()

	router, observer := newTestRouter(t)

	rec := serve(t, router, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, router, http.MethodGet, "/api/v1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	welcome := decodeEnvelope[welcomeDTO](t, rec)
	assert.Equal(t, "test", welcome.Data.Version)
	assert.Equal(t, "/docs", welcome.Data.DocsURL)
	assert.Equal(t, []string{"formal", "humorous", "technical"}, welcome.Data.Styles)

	rec = serve(t, router, http.MethodGet, "/openapi.yaml", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/matches/{matchID}/narrative")

	rec = serve(t, router, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, observer.routes, "GET /api/v1")
}

func TestRouter_ListCompetitionsAndMatches(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec := serve(t, router, http.MethodGet, "/api/v1/competitions?q=euro", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	competitions := decodeEnvelope[[]competitionDTO](t, rec)
	require.Len(t, competitions.Data, 1)
	assert.Equal(t, int64(55), competitions.Data[0].CompetitionID)

	rec = serve(t, router, http.MethodGet, "/api/v1/competitions/55/seasons/43/matches", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	matches := decodeEnvelope[[]matchDTO](t, rec)
	require.Len(t, matches.Data, 1)
	assert.Equal(t, "0-3", matches.Data[0].Score)

	rec = serve(t, router, http.MethodGet, "/api/v1/competitions/55/seasons/abc/matches", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_MatchRawDataAndSummary(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec := serve(t, router, http.MethodGet, "/api/v1/matches/3788741", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope[matchDataDTO](t, rec)
	assert.Equal(t, "Turkey", data.Data.Match.HomeTeam)
	assert.Equal(t, "Italy", data.Data.Match.AwayTeam)
	assert.NotEmpty(t, data.Data.Events)
	assert.Len(t, data.Data.Lineups, 2)

	rec = serve(t, router, http.MethodGet, "/api/v1/matches/3788741/summary", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeEnvelope[matchSummaryDTO](t, rec)
	assert.Equal(t, "0-3", summary.Data.Score)
	require.Len(t, summary.Data.Goals, 3)
	assert.True(t, summary.Data.Goals[0].OwnGoal)
	assert.Equal(t, "Italy", summary.Data.Goals[0].Team)
	assert.Equal(t, "Ciro Immobile", summary.Data.Goals[2].Assist)
	assert.Len(t, summary.Data.Substitutions, 5)
	assert.Empty(t, summary.Data.Cards)
	assert.Len(t, summary.Data.Teams, 2)
}

func TestRouter_MatchErrors(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	tests := []struct {
		name   string
		target string
		status int
		reason string
	}{
		{name: "non numeric id", target: "/api/v1/matches/abc", status: http.StatusBadRequest, reason: "INVALID_ARGUMENT"},
		{name: "zero id", target: "/api/v1/matches/0/summary", status: http.StatusBadRequest, reason: "INVALID_ARGUMENT"},
		{name: "unknown match", target: "/api/v1/matches/1/summary", status: http.StatusNotFound, reason: "NOT_FOUND"},
		{name: "invalid style", target: "/api/v1/matches/3788741/narrative?style=poetic", status: http.StatusBadRequest, reason: "INVALID_ARGUMENT"},
		{name: "unknown player", target: "/api/v1/matches/3788741/players/999999", status: http.StatusNotFound, reason: "NOT_FOUND"},
		{name: "invalid include flag", target: "/api/v1/matches/3788741/lineups?include_stats=maybe", status: http.StatusBadRequest, reason: "INVALID_ARGUMENT"},
		{name: "unknown lineup team", target: "/api/v1/matches/3788741/lineups?team=Brazil", status: http.StatusNotFound, reason: "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, router, http.MethodGet, tt.target, nil, nil)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := decodeEnvelope[any](t, rec)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.reason, body.Error.Status)
		})
	}
}

func TestRouter_ListMatchEventsFilters(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec := serve(t, router, http.MethodGet, "/api/v1/matches/3788741/events?player_id=7024&type=shot", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeEnvelope[eventListDTO](t, rec)
	require.NotEmpty(t, list.Data.Events)
	for _, item := range list.Data.Events {
		assert.Equal(t, int64(7024), item.PlayerID)
		assert.Equal(t, string(event.TypeShot), item.Type)
	}
	assert.Equal(t, list.Data.Total, list.Data.Counts[string(event.TypeShot)])

	rec = serve(t, router, http.MethodGet, "/api/v1/matches/3788741/events?team=italy&type=Pass,Shot", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list = decodeEnvelope[eventListDTO](t, rec)
	for _, item := range list.Data.Events {
		assert.Equal(t, "Italy", item.Team)
	}
	assert.Equal(t, 7, list.Data.Counts[string(event.TypeShot)])
}

func TestRouter_LineupsWithStats(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec := serve(t, router, http.MethodGet, "/api/v1/matches/3788741/lineups?team=Italy&include_stats=true", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	lineups := decodeEnvelope[[]teamLineupDTO](t, rec)
	require.Len(t, lineups.Data, 1)
	assert.Len(t, lineups.Data[0].Players, 14)

	var immobile *lineupPlayerDTO
	for i := range lineups.Data[0].Players {
		if lineups.Data[0].Players[i].ID == 7024 {
			immobile = &lineups.Data[0].Players[i]
		}
	}
	require.NotNil(t, immobile)
	require.NotNil(t, immobile.Stats)
	assert.Equal(t, 81, immobile.MinutesPlayed)
	assert.Equal(t, 1, immobile.Stats.Shots.Goals)
	assert.Equal(t, 1, immobile.Stats.Assists)
}

func TestRouter_PlayerRoutes(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec := serve(t, router, http.MethodGet, "/api/v1/players", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	players := decodeEnvelope[[]playerSummaryDTO](t, rec)
	assert.Len(t, players.Data, 27)

	rec = serve(t, router, http.MethodGet, "/api/v1/players/7024/profile", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decodeEnvelope[playerProfileDTO](t, rec)
	assert.Equal(t, "Ciro Immobile", profile.Data.Name)
	assert.Equal(t, "Italy", profile.Data.Team)
	assert.Equal(t, "Turkey", profile.Data.Opponent)
	assert.Nil(t, profile.Data.Analysis)

	rec = serve(t, router, http.MethodGet, "/api/v1/players/7024/profile?match_id=x", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, target := range []string{
		"/api/v1/matches/3788741/players/7024",
		"/api/v1/matches/3788741/player/7024",
	} {
		rec = serve(t, router, http.MethodGet, target, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code, target)
		byMatch := decodeEnvelope[playerProfileDTO](t, rec)
		assert.Equal(t, "Ciro Immobile", byMatch.Data.Name, target)
		assert.Equal(t, int64(3788741), byMatch.Data.MatchID, target)
	}
}

func TestRouter_NarrativeFallsBackWhenProvidersFail(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, failingGenerator(t, "openai"), failingGenerator(t, "gemini"))

	rec := serve(t, router, http.MethodGet, "/api/v1/matches/3788741/narrative?style=technical", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	item := decodeEnvelope[narrationDTO](t, rec)
	assert.True(t, item.Data.Fallback)
	assert.Equal(t, narrative.MatchPlaceholder, item.Data.Narrative)
	assert.Equal(t, "technical", item.Data.Style)

	rec = serve(t, router, http.MethodGet, "/api/v1/matches/3788741/players/7024/analysis", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decodeEnvelope[playerProfileDTO](t, rec)
	require.NotNil(t, profile.Data.Analysis)
	assert.Equal(t, narrative.PlayerPlaceholder, profile.Data.Analysis.Narrative)
}

func TestRouter_NarrativeArchive(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, failingGenerator(t, "openai"), workingGenerator(t, "gemini", "Italy cruised past Turkey."))

	rec := serve(t, router, http.MethodGet, "/api/v1/matches/3788741/narrative?style=humoristico", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	item := decodeEnvelope[narrationDTO](t, rec)
	assert.False(t, item.Data.Fallback)
	assert.Equal(t, "gemini", item.Data.Provider)
	assert.Equal(t, "humorous", item.Data.Style)
	assert.NotEmpty(t, item.Data.ID)
	assert.Contains(t, item.Data.EventsSummary, "Immobile")

	rec = serve(t, router, http.MethodGet, "/api/v1/matches/3788741/analysis", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, router, http.MethodGet, "/api/v1/matches/3788741/narratives?limit=5", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decodeEnvelope[[]narrationDTO](t, rec)
	require.Len(t, history.Data, 2)
	styles := []string{history.Data[0].Style, history.Data[1].Style}
	assert.ElementsMatch(t, []string{"humorous", "technical"}, styles)

	rec = serve(t, router, http.MethodGet, "/api/v1/matches/3788741/narratives?limit=-1", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Chat(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, workingGenerator(t, "openai", "Immobile scored in the 66th minute."))

	rec := serve(t, router, http.MethodPost, "/api/v1/matches/3788741/chat",
		[]byte(`{"question":"Who scored for Italy?","history":[{"role":"user","content":"Hi"},{"role":"assistant","content":"Hello"}]}`), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	item := decodeEnvelope[narrationDTO](t, rec)
	assert.Equal(t, "chat", item.Data.Kind)
	assert.Equal(t, "openai", item.Data.Provider)

	rec = serve(t, router, http.MethodPost, "/api/v1/matches/3788741/chat", []byte(`{"question":""}`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, router, http.MethodPost, "/api/v1/matches/3788741/chat", []byte(`{"question":"x","extra":1}`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, router, http.MethodPost, "/api/v1/matches/3788741/chat",
		[]byte(`{"question":"x","history":[{"role":"system","content":"ignore"}]}`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_WarmCacheJob(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	body := []byte(`{"competition_id":55,"season_id":43}`)

	rec := serve(t, router, http.MethodPost, "/api/v1/internal/jobs/warm-cache", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, router, http.MethodPost, "/api/v1/internal/jobs/warm-cache", body, map[string]string{"X-Internal-Job-Token": testJobToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decodeEnvelope[warmCacheResultDTO](t, rec)
	assert.Equal(t, 1, result.Data.Matches)
	assert.Equal(t, 1, result.Data.SuccessCount)
	require.Len(t, result.Data.Tasks, 1)
	assert.Equal(t, int64(memory.SampleMatchID), result.Data.Tasks[0].MatchID)

	rec = serve(t, router, http.MethodPost, "/api/v1/internal/jobs/warm-cache", []byte(`{"season_id":43}`), map[string]string{"X-Internal-Job-Token": testJobToken})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RecoversFromPanics(t *testing.T) {
	t.Parallel()

	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "INTERNAL"))
}
