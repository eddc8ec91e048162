package mock

import (
	"time"

	"github.com/bobby-s-dev/weather-dashboard/internal/models"
)

const (
	defaultCity     = "New York"
	forecastSamples = 8
	forecastStep    = 3 * time.Hour
)

// Generate builds the offline data set for a city. The output depends only on city and now.
func Generate(city string, now time.Time) *models.Bundle {
	if city == "" {
		city = defaultCity
	}
	ts := now.Unix()

	forecast := make([]models.ForecastSample, forecastSamples)
	for i := range forecast {
		condition := "Clouds"
		if i%4 == 0 {
			condition = "Rain"
		}
		forecast[i] = models.ForecastSample{
			Timestamp:   now.Add(time.Duration(i) * forecastStep).Unix(),
			Temperature: 24 - float64(i)*0.5,
			Condition:   condition,
		}
	}

	return &models.Bundle{
		Weather: &models.WeatherSnapshot{
			Name:        city,
			Country:     "US",
			Sunrise:     1715424000,
			Sunset:      1715468400,
			Latitude:    40.7128,
			Longitude:   -74.0060,
			Temperature: 24,
			FeelsLike:   26,
			Humidity:    45,
			Pressure:    1013,
			Condition:   "Clear",
			Description: "clear sky",
			IconCode:    "01d",
			WindSpeed:   5.1,
			Timestamp:   ts,
		},
		Forecast: forecast,
		Pollution: &models.PollutionSnapshot{
			AQI:  1,
			PM25: 8.5,
			CO:   320.5,
		},
		Source:    models.SourceMock,
		FetchedAt: now,
	}
}
