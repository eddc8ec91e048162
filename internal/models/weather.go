package models

import (
	"time"
)

// WeatherSnapshot is the current conditions for one city, in metric units.
type WeatherSnapshot struct {
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	Sunrise     int64   `json:"sunrise"`
	Sunset      int64   `json:"sunset"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
	Temperature float64 `json:"temp"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	IconCode    string  `json:"icon_code"`
	WindSpeed   float64 `json:"wind_speed"`
	Timestamp   int64   `json:"dt"`
}

// SunriseTime and SunsetTime convert the epoch fields.
func (w *WeatherSnapshot) SunriseTime() time.Time { return time.Unix(w.Sunrise, 0) }
func (w *WeatherSnapshot) SunsetTime() time.Time  { return time.Unix(w.Sunset, 0) }

// ForecastSample is one 3-hour forecast step.
type ForecastSample struct {
	Timestamp   int64   `json:"dt"`
	Temperature float64 `json:"temp"`
	Condition   string  `json:"condition"`
}

func (s ForecastSample) Time() time.Time {
	return time.Unix(s.Timestamp, 0)
}

// PollutionSnapshot holds the air quality reading. AQI 0 means unknown.
type PollutionSnapshot struct {
	AQI  int     `json:"aqi"`
	PM25 float64 `json:"pm2_5"`
	CO   float64 `json:"co"`
}

const (
	SourceLive  = "live"
	SourceMock  = "mock"
	SourceCache = "cache"
)

// Bundle is the result of one fetch sequence for a city.
type Bundle struct {
	Weather   *WeatherSnapshot   `json:"weather"`
	Forecast  []ForecastSample   `json:"forecast"`
	Pollution *PollutionSnapshot `json:"pollution"`
	Source    string             `json:"source"`
	Warnings  []string           `json:"warnings,omitempty"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// Clone returns a deep copy so cached bundles are never shared.
func (b *Bundle) Clone() *Bundle {
	if b == nil {
		return nil
	}
	out := *b
	if b.Weather != nil {
		w := *b.Weather
		out.Weather = &w
	}
	if b.Pollution != nil {
		p := *b.Pollution
		out.Pollution = &p
	}
	out.Forecast = append([]ForecastSample(nil), b.Forecast...)
	out.Warnings = append([]string(nil), b.Warnings...)
	return &out
}
