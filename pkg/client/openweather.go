package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bobby-s-dev/weather-dashboard/internal/models"
	"go.uber.org/zap"
)

const DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5"

const (
	endpointWeather   = "weather"
	endpointForecast  = "forecast"
	endpointPollution = "air_pollution"
)

type OpenWeatherClient struct {
	*BaseClient
	apiKey  string
	baseURL string
}

type OpenWeatherCurrentResponse struct {
	Coord struct {
		Lon float64 `json:"lon"`
		Lat float64 `json:"lat"`
	} `json:"coord"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Dt  int64 `json:"dt"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Name string `json:"name"`
}

type OpenWeatherForecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	} `json:"list"`
}

type OpenWeatherPollutionResponse struct {
	List []struct {
		Main struct {
			AQI int `json:"aqi"`
		} `json:"main"`
		Components struct {
			PM25 float64 `json:"pm2_5"`
			CO   float64 `json:"co"`
		} `json:"components"`
	} `json:"list"`
}

func NewOpenWeatherClient(apiKey, baseURL string, config ClientConfig, logger *zap.Logger) *OpenWeatherClient {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherURL
	}
	baseClient := NewBaseClient("openweather", config, logger)
	return &OpenWeatherClient{
		BaseClient: baseClient,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (c *OpenWeatherClient) buildURL(endpoint string, params url.Values) string {
	params.Set("appid", c.apiKey)
	return fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
}

func (c *OpenWeatherClient) GetCurrentWeather(ctx context.Context, city string) (*models.WeatherSnapshot, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("units", "metric")

	data, err := c.GetWithRetry(ctx, endpointWeather, c.buildURL(endpointWeather, params))
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return nil, ErrCityNotFound
		}
		return nil, fmt.Errorf("failed to fetch current weather: %w", err)
	}

	var response OpenWeatherCurrentResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, &ParseError{Endpoint: endpointWeather, Err: err}
	}
	if len(response.Weather) == 0 {
		return nil, &ParseError{Endpoint: endpointWeather, Err: errors.New("missing weather conditions")}
	}
	if response.Name == "" {
		return nil, &ParseError{Endpoint: endpointWeather, Err: errors.New("missing location name")}
	}

	return &models.WeatherSnapshot{
		Name:        response.Name,
		Country:     response.Sys.Country,
		Sunrise:     response.Sys.Sunrise,
		Sunset:      response.Sys.Sunset,
		Latitude:    response.Coord.Lat,
		Longitude:   response.Coord.Lon,
		Temperature: response.Main.Temp,
		FeelsLike:   response.Main.FeelsLike,
		Humidity:    response.Main.Humidity,
		Pressure:    response.Main.Pressure,
		Condition:   response.Weather[0].Main,
		Description: response.Weather[0].Description,
		IconCode:    response.Weather[0].Icon,
		WindSpeed:   response.Wind.Speed,
		Timestamp:   response.Dt,
	}, nil
}

// GetForecast returns the 5-day / 3-hour forecast list in provider order.
func (c *OpenWeatherClient) GetForecast(ctx context.Context, city string) ([]models.ForecastSample, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("units", "metric")

	data, err := c.GetWithRetry(ctx, endpointForecast, c.buildURL(endpointForecast, params))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	var response OpenWeatherForecastResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, &ParseError{Endpoint: endpointForecast, Err: err}
	}

	samples := make([]models.ForecastSample, 0, len(response.List))
	for i, item := range response.List {
		if len(item.Weather) == 0 {
			return nil, &ParseError{Endpoint: endpointForecast, Err: fmt.Errorf("item %d has no weather conditions", i)}
		}
		samples = append(samples, models.ForecastSample{
			Timestamp:   item.Dt,
			Temperature: item.Main.Temp,
			Condition:   item.Weather[0].Main,
		})
	}

	return samples, nil
}

func (c *OpenWeatherClient) GetAirPollution(ctx context.Context, lat, lon float64) (*models.PollutionSnapshot, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	data, err := c.GetWithRetry(ctx, endpointPollution, c.buildURL(endpointPollution, params))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch air pollution: %w", err)
	}

	var response OpenWeatherPollutionResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, &ParseError{Endpoint: endpointPollution, Err: err}
	}
	if len(response.List) == 0 {
		return nil, &ParseError{Endpoint: endpointPollution, Err: errors.New("empty pollution list")}
	}

	first := response.List[0]
	return &models.PollutionSnapshot{
		AQI:  first.Main.AQI,
		PM25: first.Components.PM25,
		CO:   first.Components.CO,
	}, nil
}
