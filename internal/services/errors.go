package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bobby-s-dev/weather-dashboard/pkg/client"
)

var (
	// ErrEmptyCity is returned for blank search input; state is left unchanged.
	ErrEmptyCity = errors.New("city name is required")
	// ErrSuperseded means a newer search started before this one finished; its result was dropped.
	ErrSuperseded = errors.New("search superseded by a newer request")
)

// UserMessage converts a fetch error into the text shown in the dashboard notification.
func UserMessage(err error) string {
	var (
		statusErr *client.StatusError
		parseErr  *client.ParseError
	)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, client.ErrCityNotFound):
		return client.ErrCityNotFound.Error()
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Request failed (HTTP %d)", statusErr.Code)
	case errors.As(err, &parseErr):
		return "Received malformed weather data."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Request cancelled."
	default:
		return "Unable to reach the weather service."
	}
}
