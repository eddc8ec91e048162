package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bobby-s-dev/weather-dashboard/internal/mock"
	"github.com/bobby-s-dev/weather-dashboard/internal/models"
	"go.uber.org/zap"
)

// Fetcher produces the data set for one city.
type Fetcher interface {
	Fetch(ctx context.Context, city string) (*models.Bundle, error)
	Mode() string
}

// WeatherClient is the provider surface LiveFetcher depends on.
type WeatherClient interface {
	GetCurrentWeather(ctx context.Context, city string) (*models.WeatherSnapshot, error)
	GetForecast(ctx context.Context, city string) ([]models.ForecastSample, error)
	GetAirPollution(ctx context.Context, lat, lon float64) (*models.PollutionSnapshot, error)
}

// LiveFetcher calls the provider sequentially: weather, forecast, then pollution at the
// weather response's coordinates. Only the weather call is fatal.
type LiveFetcher struct {
	client WeatherClient
	logger *zap.Logger
	now    func() time.Time
}

func NewLiveFetcher(client WeatherClient, logger *zap.Logger) *LiveFetcher {
	return &LiveFetcher{client: client, logger: logger, now: time.Now}
}

func (f *LiveFetcher) Mode() string { return models.SourceLive }

func (f *LiveFetcher) Fetch(ctx context.Context, city string) (*models.Bundle, error) {
	weather, err := f.client.GetCurrentWeather(ctx, city)
	if err != nil {
		return nil, err
	}

	bundle := &models.Bundle{
		Weather:   weather,
		Forecast:  []models.ForecastSample{},
		Source:    models.SourceLive,
		FetchedAt: f.now(),
	}

	forecast, err := f.client.GetForecast(ctx, city)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		f.logger.Warn("Forecast unavailable, keeping current weather",
			zap.String("city", city),
			zap.Error(err))
		bundle.Warnings = append(bundle.Warnings, fmt.Sprintf("Forecast unavailable: %s", UserMessage(err)))
	} else {
		bundle.Forecast = forecast
	}

	pollution, err := f.client.GetAirPollution(ctx, weather.Latitude, weather.Longitude)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		f.logger.Warn("Air quality unavailable, keeping current weather",
			zap.String("city", city),
			zap.Error(err))
		bundle.Warnings = append(bundle.Warnings, fmt.Sprintf("Air quality unavailable: %s", UserMessage(err)))
	} else {
		bundle.Pollution = pollution
	}

	return bundle, nil
}

// MockFetcher serves generated data after a display delay.
type MockFetcher struct {
	delay time.Duration
	now   func() time.Time
}

func NewMockFetcher(delay time.Duration) *MockFetcher {
	return &MockFetcher{delay: delay, now: time.Now}
}

func (f *MockFetcher) Mode() string { return models.SourceMock }

func (f *MockFetcher) Fetch(ctx context.Context, city string) (*models.Bundle, error) {
	if f.delay > 0 {
		timer := time.NewTimer(f.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return mock.Generate(city, f.now()), nil
}

// CachedFetcher serves recent bundles from a BundleCache before asking the wrapped Fetcher.
type CachedFetcher struct {
	next   Fetcher
	cache  *BundleCache
	logger *zap.Logger
}

func NewCachedFetcher(next Fetcher, cache *BundleCache, logger *zap.Logger) *CachedFetcher {
	return &CachedFetcher{next: next, cache: cache, logger: logger}
}

func (f *CachedFetcher) Mode() string { return f.next.Mode() }

func (f *CachedFetcher) Fetch(ctx context.Context, city string) (*models.Bundle, error) {
	if cached, ok := f.cache.Get(city); ok {
		f.logger.Debug("Cache hit for city", zap.String("city", city))
		cached.Source = models.SourceCache
		return cached, nil
	}

	bundle, err := f.next.Fetch(ctx, city)
	if err != nil {
		return nil, err
	}
	// Partial bundles are served but not cached so the next search retries the missing parts.
	if len(bundle.Warnings) == 0 {
		f.cache.Set(city, bundle)
	}
	return bundle, nil
}
