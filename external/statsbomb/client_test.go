package statsbomb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/event"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/logging"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/resilience"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/usecase"
)

const eventsPayload = `[
  {"id":"e2","index":2,"period":1,"timestamp":"00:00:00.000","minute":0,"second":0,"type":{"id":35,"name":"Starting XI"},"team":{"id":914,"name":"Italy"}},
  {"id":"e1","index":1,"period":1,"timestamp":"00:00:00.000","minute":0,"second":0,"type":{"id":35,"name":"Starting XI"},"team":{"id":909,"name":"Turkey"}},
  {"id":"p1","index":3,"period":2,"minute":65,"second":10,"type":{"name":"Pass"},"team":{"id":914,"name":"Italy"},"player":{"id":7788,"name":"Leonardo Spinazzola"},"possession_team":{"id":914,"name":"Italy"},"location":[80.5,12.1],"pass":{"recipient":{"id":7024,"name":"Ciro Immobile"},"goal_assist":true,"shot_assist":true}},
  {"id":"s1","index":4,"period":2,"minute":66,"second":0,"type":{"name":"Shot"},"team":{"id":914,"name":"Italy"},"player":{"id":7024,"name":"Ciro Immobile"},"shot":{"statsbomb_xg":0.12,"outcome":{"name":"Goal"},"key_pass_id":"p1","type":{"name":"Open Play"}}},
  {"id":"d1","index":5,"period":2,"minute":70,"second":0,"type":{"name":"Duel"},"team":{"id":909,"name":"Turkey"},"player":{"id":5202,"name":"Merih Demiral"},"duel":{"type":{"name":"Tackle"},"outcome":{"name":"Won"}}},
  {"id":"f1","index":6,"period":2,"minute":71,"second":0,"type":{"name":"Foul Committed"},"team":{"id":909,"name":"Turkey"},"player":{"id":5202,"name":"Merih Demiral"},"foul_committed":{"card":{"name":"Yellow Card"}}},
  {"id":"sub","index":7,"period":2,"minute":81,"second":0,"type":{"name":"Substitution"},"team":{"id":914,"name":"Italy"},"player":{"id":7024,"name":"Ciro Immobile"},"substitution":{"replacement":{"id":8000,"name":"Andrea Belotti"},"outcome":{"name":"Tactical"}}}
]`

const lineupsPayload = `[
  {"team_id":914,"team_name":"Italy","lineup":[
    {"player_id":7024,"player_name":"Ciro Immobile","player_nickname":null,"jersey_number":17,"country":{"id":112,"name":"Italy"},"cards":[],
     "positions":[{"position_id":23,"position":"Center Forward","from":"00:00","to":"81:00","from_period":1,"to_period":2,"start_reason":"Starting XI","end_reason":"Substitution - Off (Tactical)"}]}
  ]}
]`

const matchesPayload = `[
  {"match_id":3788741,"match_date":"2021-06-11","kick_off":"21:00:00.000",
   "competition":{"competition_id":55,"country_name":"Europe","competition_name":"UEFA Euro"},
   "season":{"season_id":43,"season_name":"2020"},
   "home_team":{"home_team_id":909,"home_team_name":"Turkey"},
   "away_team":{"away_team_id":914,"away_team_name":"Italy"},
   "home_score":0,"away_score":3,"match_status":"available","match_week":1,
   "competition_stage":{"id":10,"name":"Group Stage"},
   "stadium":{"id":4,"name":"Stadio Olimpico"},
   "referee":{"id":5,"name":"Danny Makkelie"}}
]`

func newTestClient(t *testing.T, server *httptest.Server, breaker resilience.CircuitBreakerConfig) *Client {
	t.Helper()
	return NewClient(ClientConfig{
		HTTPClient:     server.Client(),
		BaseURL:        server.URL,
		MaxRetries:     1,
		RetryDelay:     time.Millisecond,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func TestEventRepository_ListByMatch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events/3788741.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(eventsPayload))
	}))
	defer server.Close()

	repo := NewEventRepository(newTestClient(t, server, resilience.CircuitBreakerConfig{}))
	items, err := repo.ListByMatch(context.Background(), 3788741)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(items) != 7 {
		t.Fatalf("unexpected event count: %d", len(items))
	}
	if items[0].ID != "e1" || items[0].TeamName != "Turkey" {
		t.Fatalf("expected chronological order, got first=%+v", items[0])
	}

	pass := items[2]
	if !pass.IsPassCompleted() || !pass.GoalAssist || pass.Recipient != "Ciro Immobile" || pass.Location == nil || pass.Location.X != 80.5 {
		t.Fatalf("unexpected pass mapping: %+v", pass)
	}
	shot := items[3]
	if !shot.IsGoal() || shot.KeyPassID != "p1" || shot.ExpectedGoals != 0.12 || shot.Subtype != "Open Play" {
		t.Fatalf("unexpected shot mapping: %+v", shot)
	}
	if !items[4].IsTackleWon() {
		t.Fatalf("unexpected duel mapping: %+v", items[4])
	}
	if items[5].Type != event.TypeFoulCommitted || items[5].CardType != event.CardYellow {
		t.Fatalf("unexpected foul mapping: %+v", items[5])
	}
	if items[6].Replacement != "Andrea Belotti" {
		t.Fatalf("unexpected substitution mapping: %+v", items[6])
	}
}

func TestLineupAndMatchRepositories(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lineups/3788741.json":
			_, _ = w.Write([]byte(lineupsPayload))
		case "/matches/55/43.json":
			_, _ = w.Write([]byte(matchesPayload))
		case "/competitions.json":
			_, _ = w.Write([]byte(`[{"competition_id":55,"season_id":43,"country_name":"Europe","competition_name":"UEFA Euro","competition_gender":"male","competition_international":true,"season_name":"2020"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server, resilience.CircuitBreakerConfig{})

	lineups, err := NewLineupRepository(client).ListByMatch(context.Background(), 3788741)
	if err != nil {
		t.Fatalf("list lineups: %v", err)
	}
	player := lineups[0].Players[0]
	if player.Nickname != "" || player.Country != "Italy" || player.Positions[0].To != "81:00" || player.MinutesPlayed(94) != 81 {
		t.Fatalf("unexpected lineup mapping: %+v", player)
	}

	matches, err := NewMatchRepository(client).ListBySeason(context.Background(), 55, 43)
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	m := matches[0]
	if m.Title() != "Turkey vs Italy" || m.Score() != "0-3" || m.Stadium != "Stadio Olimpico" || m.CompetitionStage != "Group Stage" || m.Date.Day() != 11 {
		t.Fatalf("unexpected match mapping: %+v", m)
	}

	competitions, err := NewMatchRepository(client).ListCompetitions(context.Background())
	if err != nil {
		t.Fatalf("list competitions: %v", err)
	}
	if len(competitions) != 1 || !competitions[0].International || competitions[0].SeasonName != "2020" {
		t.Fatalf("unexpected competitions: %+v", competitions)
	}
}

func TestClient_NotFoundMapsToErrNotFound(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := newTestClient(t, server, resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1})
	_, err := NewEventRepository(client).ListByMatch(context.Background(), 1)
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("404 must not be retried, calls=%d", calls.Load())
	}
	if client.BreakerState() != resilience.CircuitStateClosed {
		t.Fatalf("404 must not open the breaker, state=%s", client.BreakerState())
	}
}

func TestClient_RetriesTransientAndOpensBreaker(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	}))
	defer server.Close()

	client := newTestClient(t, server, resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute})
	repo := NewEventRepository(client)

	if _, err := repo.ListByMatch(context.Background(), 7585); err == nil {
		t.Fatalf("expected error for 502")
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one retry, calls=%d", calls.Load())
	}

	_, err := repo.ListByMatch(context.Background(), 7585)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable from open breaker, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("open breaker must short-circuit, calls=%d", calls.Load())
	}
}

func TestClient_HalfOpenBreakerClosesAfterConcurrentIdenticalFetches(t *testing.T) {
	t.Parallel()

	var failing atomic.Bool
	failing.Store(true)
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		if r.URL.Path == "/events/1.json" {
			<-release
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      20 * time.Millisecond,
		HalfOpenMaxReq:   1,
	})
	ctx := context.Background()

	if _, err := client.FetchEvents(ctx, 1); err == nil {
		t.Fatalf("expected error while provider fails")
	}
	if client.BreakerState() == resilience.CircuitStateClosed {
		t.Fatalf("expected breaker to trip")
	}

	failing.Store(false)
	time.Sleep(40 * time.Millisecond)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.FetchEvents(ctx, 1)
		}(i)
	}
	time.Sleep(30 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent fetch %d: %v", i, err)
		}
	}
	if state := client.BreakerState(); state != resilience.CircuitStateClosed {
		t.Fatalf("expected breaker closed after healthy half-open probe, got %s", state)
	}

	errs = make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.FetchEvents(ctx, int64(10+i))
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("distinct fetch %d: %v", i, err)
		}
	}
}

type memoryPayloadCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func (m *memoryPayloadCache) GetPayload(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.items[key]
	return raw, ok, nil
}

func (m *memoryPayloadCache) SetPayload(_ context.Context, key string, raw []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = raw
	return nil
}

func TestClient_UsesPayloadCache(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(lineupsPayload))
	}))
	defer server.Close()

	payloads := &memoryPayloadCache{items: map[string][]byte{}}
	client := NewClient(ClientConfig{
		HTTPClient:   server.Client(),
		BaseURL:      server.URL,
		Logger:       logging.NewNop(),
		PayloadCache: payloads,
	})
	repo := NewLineupRepository(client)

	for i := 0; i < 3; i++ {
		if _, err := repo.ListByMatch(context.Background(), 3788741); err != nil {
			t.Fatalf("list lineups: %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single upstream call, got %d", calls.Load())
	}
	if _, ok := payloads.items["/lineups/3788741.json"]; !ok {
		t.Fatalf("expected payload to be cached")
	}
}
