package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bobby-s-dev/weather-dashboard/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Controller owns the dashboard ViewState and is its only writer.
//
// Every search bumps the generation and cancels the fetch that was in flight, so the
// last submitted search always wins; results from older generations are discarded.
type Controller struct {
	fetcher Fetcher
	logger  *zap.Logger
	now     func() time.Time

	mu     sync.Mutex
	state  models.ViewState
	cancel context.CancelFunc
	wg     sync.WaitGroup

	successCount    int
	failureCount    int
	supersededCount int
	lastFetchTime   time.Time
}

func NewController(fetcher Fetcher, logger *zap.Logger) *Controller {
	return &Controller{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
		state: models.ViewState{
			Forecast: []models.ForecastSample{},
			Mode:     fetcher.Mode(),
		},
	}
}

// State returns a copy of the current view state.
func (c *Controller) State() models.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Copy()
}

// SetSearchInput records what the user has typed so far.
func (c *Controller) SetSearchInput(value string) models.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SearchInput = value
	return c.state.Copy()
}

// DismissError clears the notification without touching anything else.
func (c *Controller) DismissError() models.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.LastError = nil
	return c.state.Copy()
}

// Search runs the full fetch lifecycle for city and blocks until it settles.
func (c *Controller) Search(ctx context.Context, city string) (models.ViewState, error) {
	gen, fetchCtx, city, err := c.begin(ctx, city)
	if err != nil {
		return c.State(), err
	}
	return c.run(fetchCtx, gen, city)
}

// Submit starts a search in the background and returns its generation.
func (c *Controller) Submit(city string) (uint64, error) {
	gen, fetchCtx, city, err := c.begin(context.Background(), city)
	if err != nil {
		return 0, err
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(fetchCtx, gen, city)
	}()
	return gen, nil
}

// Refresh repeats the search for the selected city.
func (c *Controller) Refresh(ctx context.Context) (models.ViewState, error) {
	c.mu.Lock()
	city := c.state.SelectedCity
	c.mu.Unlock()
	return c.Search(ctx, city)
}

// Close cancels any in-flight fetch and waits for background searches to finish.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()
	c.wg.Wait()
}

// begin applies the fetch-start transition.
func (c *Controller) begin(ctx context.Context, city string) (uint64, context.Context, string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return 0, nil, "", ErrEmptyCity
	}

	fetchCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.state.Generation++
	c.state.Loading = true
	c.state.LastError = nil
	c.state.SelectedCity = city
	c.lastFetchTime = c.now()

	return c.state.Generation, fetchCtx, city, nil
}

// run fetches outside the lock, then applies fetch-success or fetch-error if gen is still current.
func (c *Controller) run(ctx context.Context, gen uint64, city string) (models.ViewState, error) {
	fetchID := uuid.NewString()
	startTime := c.now()

	c.logger.Info("Fetching dashboard data",
		zap.String("city", city),
		zap.Uint64("generation", gen),
		zap.String("fetch_id", fetchID),
		zap.String("mode", c.fetcher.Mode()))

	bundle, err := c.fetcher.Fetch(ctx, city)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.state.Generation {
		c.supersededCount++
		c.logger.Info("Discarding superseded fetch",
			zap.String("city", city),
			zap.Uint64("generation", gen),
			zap.Uint64("current_generation", c.state.Generation),
			zap.String("fetch_id", fetchID))
		return c.state.Copy(), ErrSuperseded
	}

	c.cancel()
	c.cancel = nil
	c.state.Loading = false
	c.state.UpdatedAt = c.now()

	if err != nil {
		msg := UserMessage(err)
		c.state.LastError = &msg
		c.failureCount++
		c.logger.Error("Dashboard fetch failed",
			zap.String("city", city),
			zap.Uint64("generation", gen),
			zap.String("fetch_id", fetchID),
			zap.Duration("duration", time.Since(startTime)),
			zap.Error(err))
		return c.state.Copy(), err
	}

	// Replace, never merge.
	c.state.Weather = bundle.Weather
	c.state.Forecast = bundle.Forecast
	if c.state.Forecast == nil {
		c.state.Forecast = []models.ForecastSample{}
	}
	c.state.Pollution = bundle.Pollution
	c.state.Warnings = bundle.Warnings
	c.state.Source = bundle.Source
	c.successCount++

	c.logger.Info("Dashboard fetch completed",
		zap.String("city", city),
		zap.Uint64("generation", gen),
		zap.String("fetch_id", fetchID),
		zap.String("source", bundle.Source),
		zap.Int("forecast_samples", len(bundle.Forecast)),
		zap.Int("warnings", len(bundle.Warnings)),
		zap.Duration("duration", time.Since(startTime)))

	return c.state.Copy(), nil
}

func (c *Controller) GetLastFetchTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastFetchTime
}

func (c *Controller) GetStats() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	return map[string]interface{}{
		"last_fetch_time":  c.lastFetchTime,
		"success_count":    c.successCount,
		"failure_count":    c.failureCount,
		"superseded_count": c.supersededCount,
		"generation":       c.state.Generation,
		"mode":             c.state.Mode,
	}
}
