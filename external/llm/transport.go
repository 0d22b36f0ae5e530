package llm

import (
	"bytes"
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

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/logging"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/resilience"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/usecase"
)

const maxResponseBytes = 4 << 20

var errProviderTransient = crerr.New("llm provider transient failure")
var errProviderRejected = crerr.New("llm provider rejected request")

// TransportConfig is shared by every provider client.
type TransportConfig struct {
	HTTPClient     *http.Client
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type transport struct {
	name           string
	httpClient     *http.Client
	retry          resilience.RetryPolicy
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func newTransport(name string, cfg TransportConfig) *transport {
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
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &transport{
		name:           name,
		httpClient:     httpClient,
		retry:          resilience.RetryPolicy{MaxRetries: max(cfg.MaxRetries, 0), BaseDelay: cfg.RetryDelay},
		logger:         logger.Named("llm." + name),
		breaker:        resilience.NewCircuitBreaker("llm."+name, breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (t *transport) postJSON(ctx context.Context, fullURL string, headers map[string]string, payload, target any) error {
	body, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", t.name, err)
	}

	if t.circuitEnabled {
		if err := t.breaker.Allow(); err != nil {
			t.logger.WarnContext(ctx, "llm circuit breaker rejected request", "state", t.breaker.State())
			return fmt.Errorf("%w: %s is temporarily unavailable", usecase.ErrDependencyUnavailable, t.name)
		}
	}

	raw, err := t.execute(ctx, fullURL, headers, body)
	if t.circuitEnabled {
		t.breaker.Record(err, isCircuitFailure)
	}
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode %s response: %w", t.name, err)
	}
	return nil
}

func (t *transport) execute(ctx context.Context, fullURL string, headers map[string]string, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= t.retry.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("content-type", "application/json")
		req.Header.Set("accept", "application/json")
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		resp, err := t.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = crerr.Wrapf(errProviderTransient, "send request: %v", err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Wrapf(errProviderTransient, "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Wrapf(errProviderTransient, "provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, crerr.Wrapf(errProviderRejected, "provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == t.retry.MaxRetries {
			break
		}
		timer := time.NewTimer(t.retry.Backoff(attempt))
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
	return nil, lastErr
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.Canceled) {
		return false
	}
	return crerr.Is(err, errProviderTransient) || stderrors.Is(err, context.DeadlineExceeded)
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
