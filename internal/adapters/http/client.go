package http

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"tfsettings/internal/domain"
)

const (
	// Client rate limiting, kept below the bridge's own limit.
	rateLimitRequestsPerSecond = 10
	rateLimitBurst             = 20
)

const (
	// Standard HTTP content types.
	contentTypeJSON = "application/json"
)

// Adapter calls a running bridge over HTTP. Invocations are never retried:
// a write that timed out may still have reached the disk.
type Adapter struct {
	client  *resty.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewAdapter creates a bridge client for baseURL (e.g. http://127.0.0.1:7780).
func NewAdapter(baseURL string, timeout time.Duration, logger *slog.Logger) *Adapter {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", contentTypeJSON)

	limiter := rate.NewLimiter(rate.Limit(rateLimitRequestsPerSecond), rateLimitBurst)

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		logger.DebugContext(req.Context(), "HTTP request",
			"method", req.Method,
			"url", req.URL,
		)
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.DebugContext(resp.Request.Context(), "HTTP response",
			"method", resp.Request.Method,
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
			"duration", resp.Time(),
		)
		return nil
	})

	return &Adapter{
		client:  client,
		limiter: limiter,
		logger:  logger,
	}
}

// Invoke sends one invocation to the bridge and returns its result.
// Transport failures and non-JSON responses are returned as errors; command
// failures come back as a Result with OK unset.
func (a *Adapter) Invoke(ctx context.Context, inv domain.Invocation) (domain.Result, error) {
	var result domain.Result

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentTypeJSON).
		SetBody(inv).
		SetResult(&result).
		SetError(&result).
		Post("/invoke")
	if err != nil {
		return domain.Result{}, fmt.Errorf("failed to execute invocation request: %w", err)
	}

	if resp.IsError() && result.Error == "" {
		return domain.Result{}, fmt.Errorf("bridge returned HTTP %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	return result, nil
}

// Healthy reports whether the bridge answers its liveness probe.
func (a *Adapter) Healthy(ctx context.Context) bool {
	resp, err := a.client.R().SetContext(ctx).Get("/healthz")
	return err == nil && resp.StatusCode() == 200
}

// SetRateLimit allows configuring the rate limiter after creation.
func (a *Adapter) SetRateLimit(requestsPerSecond float64, burst int) {
	a.limiter.SetLimit(rate.Limit(requestsPerSecond))
	a.limiter.SetBurst(burst)
}
