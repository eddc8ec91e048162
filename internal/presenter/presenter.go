package presenter

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/bobby-s-dev/weather-dashboard/internal/aqi"
	"github.com/bobby-s-dev/weather-dashboard/internal/forecast"
	"github.com/bobby-s-dev/weather-dashboard/internal/icons"
	"github.com/bobby-s-dev/weather-dashboard/internal/models"
)

// Theme is the hero card background variant.
type Theme string

const (
	ThemeNight  Theme = "night"
	ThemeStorm  Theme = "storm"
	ThemeCloudy Theme = "cloudy"
	ThemeClear  Theme = "clear"
)

var themeGradients = map[Theme]string{
	ThemeNight:  "from-slate-800 to-indigo-950 shadow-indigo-900/40",
	ThemeStorm:  "from-slate-600 to-slate-800 shadow-slate-700/30",
	ThemeCloudy: "from-blue-400 to-slate-500 shadow-blue-500/20",
	ThemeClear:  "from-blue-500 to-sky-400 shadow-blue-500/30",
}

// Gradient returns the background tokens for the theme.
func (t Theme) Gradient() string {
	return themeGradients[t]
}

type HeroCard struct {
	Name        string   `json:"name"`
	Country     string   `json:"country"`
	Date        string   `json:"date"`
	Sunrise     string   `json:"sunrise"`
	Sunset      string   `json:"sunset"`
	Icon        icons.ID `json:"icon"`
	Temperature string   `json:"temperature"`
	Description string   `json:"description"`
	Theme       Theme    `json:"theme"`
	Gradient    string   `json:"gradient"`
}

type AirQualityCard struct {
	Tier   aqi.Tier `json:"tier"`
	Width  string   `json:"width"`
	Index  string   `json:"index"`
	PM25   string   `json:"pm2_5"`
	CO     string   `json:"co"`
	Advice []string `json:"advice"`
}

type ForecastEntry struct {
	Heading     string   `json:"heading"`
	Icon        icons.ID `json:"icon"`
	Accent      string   `json:"accent"`
	Temperature string   `json:"temperature"`
	Highlighted bool     `json:"highlighted"`
}

type ForecastCard struct {
	Mode    forecast.Mode   `json:"mode"`
	Title   string          `json:"title"`
	Entries []ForecastEntry `json:"entries"`
}

type StatCard struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Color string `json:"color"`
	Bg    string `json:"bg"`
}

// DashboardView is everything the page needs to render one frame.
type DashboardView struct {
	SelectedCity string         `json:"selected_city"`
	SearchInput  string         `json:"search_input"`
	Loading      bool           `json:"loading"`
	Error        *string        `json:"error"`
	Warnings     []string       `json:"warnings"`
	Mode         string         `json:"mode"`
	Source       string         `json:"source,omitempty"`
	Generation   uint64         `json:"generation"`
	Hero         HeroCard       `json:"hero"`
	AirQuality   AirQualityCard `json:"air_quality"`
	Forecast     ForecastCard   `json:"forecast"`
	Stats        []StatCard     `json:"stats"`
}

// Build renders state as seen at now in loc (nil means time.Local).
func Build(state models.ViewState, mode forecast.Mode, now time.Time, loc *time.Location) DashboardView {
	if loc == nil {
		loc = time.Local
	}
	warnings := state.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return DashboardView{
		SelectedCity: state.SelectedCity,
		SearchInput:  state.SearchInput,
		Loading:      state.Loading,
		Error:        state.LastError,
		Warnings:     warnings,
		Mode:         state.Mode,
		Source:       state.Source,
		Generation:   state.Generation,
		Hero:         BuildHero(state.Weather, now, loc),
		AirQuality:   BuildAirQuality(state.Pollution),
		Forecast:     BuildForecast(state.Forecast, mode, now, loc),
		Stats:        BuildStats(state.Weather),
	}
}

func BuildHero(w *models.WeatherSnapshot, now time.Time, loc *time.Location) HeroCard {
	card := HeroCard{
		Name:    "---",
		Country: "Location",
		Date:    now.In(loc).Format("Monday, January 2"),
		Sunrise: "--:--",
		Sunset:  "--:--",
		Icon:    icons.Select(""),
		// The big readout shows 0° until weather arrives.
		Temperature: roundDegrees(0),
	}

	condition := "Clear"
	if w != nil {
		if w.Name != "" {
			card.Name = w.Name
		}
		if w.Country != "" {
			card.Country = w.Country
		}
		card.Sunrise = w.SunriseTime().In(loc).Format("15:04")
		card.Sunset = w.SunsetTime().In(loc).Format("15:04")
		card.Icon = icons.Select(w.Condition)
		card.Temperature = roundDegrees(w.Temperature)
		card.Description = w.Description
		if w.Condition != "" {
			condition = w.Condition
		}
	}

	card.Theme = themeFor(w, condition, now)
	card.Gradient = card.Theme.Gradient()
	return card
}

func themeFor(w *models.WeatherSnapshot, condition string, now time.Time) Theme {
	ts := now.Unix()
	switch {
	case w != nil && (ts > w.Sunset || ts < w.Sunrise):
		return ThemeNight
	case condition == "Rain", condition == "Thunderstorm", condition == "Drizzle":
		return ThemeStorm
	case condition == "Clouds":
		return ThemeCloudy
	default:
		return ThemeClear
	}
}

func BuildAirQuality(p *models.PollutionSnapshot) AirQualityCard {
	card := AirQualityCard{
		Index: "-",
		PM25:  "--",
		CO:    "--",
	}
	for i := 1; i <= 5; i++ {
		card.Advice = append(card.Advice, fmt.Sprintf("%d: %s", i, aqi.Describe(i)))
	}

	index := 0
	if p != nil {
		index = p.AQI
		if p.AQI != 0 {
			card.Index = strconv.Itoa(p.AQI)
		}
		card.PM25 = fmt.Sprintf("%.1f", p.PM25)
		card.CO = fmt.Sprintf("%.1f", p.CO/1000)
	}
	card.Tier = aqi.Classify(index)
	card.Width = card.Tier.WidthCSS()
	return card
}

func BuildForecast(samples []models.ForecastSample, mode forecast.Mode, now time.Time, loc *time.Location) ForecastCard {
	entries := forecast.Group(samples, mode, now, loc)
	card := ForecastCard{
		Mode:    mode,
		Title:   mode.Title(),
		Entries: make([]ForecastEntry, 0, len(entries)),
	}
	for _, e := range entries {
		icon := icons.Select(e.Sample.Condition)
		card.Entries = append(card.Entries, ForecastEntry{
			Heading:     e.Heading(mode),
			Icon:        icon,
			Accent:      icon.Accent(),
			Temperature: roundDegrees(e.Sample.Temperature),
			Highlighted: e.Highlighted,
		})
	}
	return card
}

// BuildStats renders the four stat tiles. Missing weather shows zeros.
func BuildStats(w *models.WeatherSnapshot) []StatCard {
	var feels, humidity, wind, pressure float64
	if w != nil {
		feels, humidity, wind, pressure = w.FeelsLike, w.Humidity, w.WindSpeed, w.Pressure
	}
	return []StatCard{
		{Label: "Feels Like", Value: roundTemp(feels), Color: "text-orange-500", Bg: "bg-orange-50"},
		{Label: "Humidity", Value: formatNumber(humidity) + "%", Color: "text-blue-500", Bg: "bg-blue-50"},
		{Label: "Wind Speed", Value: formatNumber(wind) + " m/s", Color: "text-emerald-500", Bg: "bg-emerald-50"},
		{Label: "Pressure", Value: formatNumber(pressure) + " hPa", Color: "text-indigo-500", Bg: "bg-indigo-50"},
	}
}

func roundDegrees(v float64) string {
	return strconv.Itoa(int(math.Round(v))) + "°"
}

func roundTemp(v float64) string {
	return roundDegrees(v) + "C"
}

// formatNumber prints v without trailing zeros, so 3.60 is "3.6" and 1012 is "1012".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
