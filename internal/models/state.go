package models

import "time"

// ViewState is the dashboard state. Only services.Controller writes it.
type ViewState struct {
	SelectedCity string             `json:"selected_city"`
	SearchInput  string             `json:"search_input"`
	Weather      *WeatherSnapshot   `json:"weather"`
	Forecast     []ForecastSample   `json:"forecast"`
	Pollution    *PollutionSnapshot `json:"pollution"`
	Loading      bool               `json:"loading"`
	LastError    *string            `json:"last_error"`
	Warnings     []string           `json:"warnings,omitempty"`
	Generation   uint64             `json:"generation"`
	Source       string             `json:"source,omitempty"`
	Mode         string             `json:"mode"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// Copy returns a deep copy of the state.
func (s ViewState) Copy() ViewState {
	out := s
	if s.Weather != nil {
		w := *s.Weather
		out.Weather = &w
	}
	if s.Pollution != nil {
		p := *s.Pollution
		out.Pollution = &p
	}
	if s.LastError != nil {
		e := *s.LastError
		out.LastError = &e
	}
	out.Forecast = append([]ForecastSample{}, s.Forecast...)
	out.Warnings = append([]string(nil), s.Warnings...)
	return out
}

// ErrorMessage returns the current error text or "".
func (s ViewState) ErrorMessage() string {
	if s.LastError == nil {
		return ""
	}
	return *s.LastError
}
