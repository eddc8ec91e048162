package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// errRateWait marks a caller deadline too short to wait for a rate limit token.
var errRateWait = errors.New("rate limit wait would exceed deadline")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type BaseClient struct {
	client         HTTPClient
	logger         *zap.Logger
	circuitBreaker *gobreaker.CircuitBreaker
	limiter        *rate.Limiter
	maxRetries     int
	retryDelay     time.Duration
	multiplier     float64
}

type ClientConfig struct {
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	Multiplier     float64
	Threshold      int
	BreakerTimeout time.Duration
	BreakerWindow  time.Duration // closed-state count reset period, 0 means one minute
	RatePerSecond  float64       // 0 disables rate limiting
	RateBurst      int
}

func NewBaseClient(name string, config ClientConfig, logger *zap.Logger) *BaseClient {
	httpClient := &http.Client{
		Timeout: config.Timeout,
	}

	threshold := uint32(config.Threshold)
	if threshold == 0 {
		threshold = 3
	}
	window := config.BreakerWindow
	if window <= 0 {
		window = time.Minute
	}

	// Circuit breaker settings
	breakerSettings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    window,
		Timeout:     config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= threshold && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				zap.String("client", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if config.RatePerSecond > 0 {
		burst := config.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RatePerSecond), burst)
	}

	return &BaseClient{
		client:         httpClient,
		logger:         logger,
		circuitBreaker: gobreaker.NewCircuitBreaker(breakerSettings),
		limiter:        limiter,
		maxRetries:     config.MaxRetries,
		retryDelay:     config.RetryDelay,
		multiplier:     config.Multiplier,
	}
}

// BreakerState exposes the circuit breaker state for metrics.
func (c *BaseClient) BreakerState() string {
	return c.circuitBreaker.State().String()
}

// GetWithRetry fetches url through the circuit breaker. endpoint names the call in logs and errors.
func (c *BaseClient) GetWithRetry(ctx context.Context, endpoint, url string) ([]byte, error) {
	var response []byte
	var finalErr error

	// Client errors (unknown city, bad key) are the caller's problem and must not trip the breaker.
	_, execErr := c.circuitBreaker.Execute(func() (interface{}, error) {
		body, err := c.doGetWithRetry(ctx, endpoint, url)
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.Retryable() {
			finalErr = err
			return nil, nil
		}
		// A cancelled or timed-out caller says nothing about provider health.
		if err != nil && (ctx.Err() != nil || errors.Is(err, errRateWait)) {
			finalErr = err
			return nil, nil
		}
		response = body
		return body, err
	})

	if execErr != nil {
		return nil, execErr
	}
	if finalErr != nil {
		return nil, finalErr
	}

	return response, nil
}

func (c *BaseClient) doGetWithRetry(ctx context.Context, endpoint, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Calculate exponential backoff delay
			delay := time.Duration(float64(c.retryDelay) * math.Pow(c.multiplier, float64(attempt-1)))
			c.logger.Debug("Retrying request",
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay))

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Wait fails early when the deadline is too close for the next token.
			return nil, fmt.Errorf("%w: %v", errRateWait, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request failed: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			c.logger.Warn("HTTP request failed",
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()

			if err != nil {
				lastErr = err
				continue
			}

			c.logger.Debug("Request successful",
				zap.String("endpoint", endpoint),
				zap.Int("status", resp.StatusCode),
				zap.Int("body_size", len(body)))

			return body, nil
		}

		resp.Body.Close()
		statusErr := &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
		if !statusErr.Retryable() {
			return nil, statusErr
		}
		lastErr = statusErr
	}

	return nil, fmt.Errorf("max retries exceeded, last error: %w", lastErr)
}
