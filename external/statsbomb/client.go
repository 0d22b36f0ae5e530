package statsbomb

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/cache"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/logging"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/resilience"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/usecase"
)

const (
	DefaultBaseURL   = "https://raw.githubusercontent.com/statsbomb/open-data/master/data"
	maxResponseBytes = 32 << 20
)

var errOpenDataTransient = crerr.New("open data transient failure")
var errOpenDataNotFound = crerr.New("open data file not found")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	PayloadCache   cache.PayloadCache
}

// Client reads the StatsBomb open-data JSON files.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	retry          resilience.RetryPolicy
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight[[]byte]
	payloads       cache.PayloadCache
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		retry:          resilience.RetryPolicy{MaxRetries: max(cfg.MaxRetries, 0), BaseDelay: cfg.RetryDelay},
		logger:         logger.Named("statsbomb"),
		breaker:        resilience.NewCircuitBreaker("statsbomb", breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
		payloads:       cfg.PayloadCache,
	}
}

func (c *Client) FetchCompetitions(ctx context.Context) ([]competitionRecord, error) {
	var out []competitionRecord
	if err := c.doJSON(ctx, "/competitions.json", &out); err != nil {
		return nil, fmt.Errorf("fetch competitions: %w", err)
	}
	return out, nil
}

func (c *Client) FetchMatches(ctx context.Context, competitionID, seasonID int64) ([]matchRecord, error) {
	if competitionID <= 0 || seasonID <= 0 {
		return nil, fmt.Errorf("%w: competition id and season id must be greater than zero", usecase.ErrInvalidInput)
	}

	var out []matchRecord
	path := fmt.Sprintf("/matches/%d/%d.json", competitionID, seasonID)
	if err := c.doJSON(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("fetch matches competition_id=%d season_id=%d: %w", competitionID, seasonID, err)
	}
	return out, nil
}

func (c *Client) FetchEvents(ctx context.Context, matchID int64) ([]eventRecord, error) {
	if matchID <= 0 {
		return nil, fmt.Errorf("%w: match id must be greater than zero", usecase.ErrInvalidInput)
	}

	var out []eventRecord
	if err := c.doJSON(ctx, fmt.Sprintf("/events/%d.json", matchID), &out); err != nil {
		return nil, fmt.Errorf("fetch events match_id=%d: %w", matchID, err)
	}
	return out, nil
}

func (c *Client) FetchLineups(ctx context.Context, matchID int64) ([]lineupRecord, error) {
	if matchID <= 0 {
		return nil, fmt.Errorf("%w: match id must be greater than zero", usecase.ErrInvalidInput)
	}

	var out []lineupRecord
	if err := c.doJSON(ctx, fmt.Sprintf("/lineups/%d.json", matchID), &out); err != nil {
		return nil, fmt.Errorf("fetch lineups match_id=%d: %w", matchID, err)
	}
	return out, nil
}

// BreakerState exposes the breaker for health reporting.
func (c *Client) BreakerState() resilience.CircuitState {
	return c.breaker.State()
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	raw, err := c.fetch(ctx, path)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode open data payload %s: %w", path, err)
	}
	return nil
}

// fetch serves path from the shared payload cache when possible, then from
// the network behind the breaker and a single-flight group.
func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	if c.payloads != nil {
		raw, ok, err := c.payloads.GetPayload(ctx, path)
		if err != nil {
			c.logger.WarnContext(ctx, "payload cache read failed", "path", path, "error", err)
		} else if ok {
			return raw, nil
		}
	}

	// One breaker slot per flight; followers share the leader's outcome.
	raw, err, _ := c.flight.Do(path, func() ([]byte, error) {
		if c.circuitEnabled {
			if err := c.breaker.Allow(); err != nil {
				c.logger.WarnContext(ctx, "statsbomb circuit breaker rejected request", "state", c.breaker.State())
				return nil, fmt.Errorf("%w: open data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
			}
		}
		raw, reqErr := c.executeRequest(ctx, c.baseURL+path)
		if c.circuitEnabled {
			c.breaker.Record(reqErr, isCircuitFailure)
		}
		return raw, reqErr
	})
	if err != nil {
		if crerr.Is(err, errOpenDataNotFound) {
			return nil, fmt.Errorf("%w: %s", usecase.ErrNotFound, path)
		}
		return nil, err
	}

	if c.payloads != nil {
		if err := c.payloads.SetPayload(ctx, path, raw); err != nil {
			c.logger.WarnContext(ctx, "payload cache write failed", "path", path, "error", err)
		}
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = crerr.Wrapf(errOpenDataTransient, "send request: %v", err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Wrapf(errOpenDataTransient, "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, crerr.Wrapf(errOpenDataNotFound, "provider status=%d", resp.StatusCode)
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Wrapf(errOpenDataTransient, "provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.retry.MaxRetries {
			break
		}
		timer := time.NewTimer(c.retry.Backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "statsbomb request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// isCircuitFailure counts transport errors and 5xx/429 against the breaker;
// a missing file or a cancelled caller does not.
func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.Canceled) {
		return false
	}
	return crerr.Is(err, errOpenDataTransient) || stderrors.Is(err, context.DeadlineExceeded)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= 500
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
