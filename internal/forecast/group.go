package forecast

import (
	"fmt"
	"strings"
	"time"

	"github.com/bobby-s-dev/weather-dashboard/internal/models"
)

// Mode selects how forecast samples are grouped for display.
type Mode string

const (
	Hourly Mode = "24h"
	Daily  Mode = "5day"
)

const (
	hourlyEntries = 8 // 24 hours at 3-hour spacing
	dailyEntries  = 5
	middayStart   = 11
	middayEnd     = 15
)

// ParseMode accepts "24h"/"hourly" and "5day"/"daily". Empty means Hourly.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "24h", "hourly":
		return Hourly, nil
	case "5day", "daily":
		return Daily, nil
	default:
		return "", fmt.Errorf("unknown forecast view %q", s)
	}
}

// Title is the card heading for the mode.
func (m Mode) Title() string {
	if m == Daily {
		return "5-Day Forecast"
	}
	return "24-Hour Forecast"
}

// Entry is one forecast column on the dashboard.
type Entry struct {
	Sample      models.ForecastSample `json:"sample"`
	Label       string                `json:"label"`
	Highlighted bool                  `json:"highlighted"`
}

// Heading is the caption shown above the entry: the highlighted hourly entry reads "Now".
func (e Entry) Heading(mode Mode) string {
	if mode == Hourly && e.Highlighted {
		return "Now"
	}
	return e.Label
}

// Group turns provider-ordered samples into display entries. now is only used for the
// "Today" label, and loc decides calendar dates and clock labels (nil means time.Local).
// samples is never modified.
func Group(samples []models.ForecastSample, mode Mode, now time.Time, loc *time.Location) []Entry {
	if loc == nil {
		loc = time.Local
	}
	if mode == Daily {
		return groupDaily(samples, now, loc)
	}
	return groupHourly(samples, loc)
}

func groupHourly(samples []models.ForecastSample, loc *time.Location) []Entry {
	n := len(samples)
	if n > hourlyEntries {
		n = hourlyEntries
	}

	entries := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, Entry{
			Sample:      samples[i],
			Label:       samples[i].Time().In(loc).Format("15:04"),
			Highlighted: i == 0,
		})
	}
	return entries
}

type dayBucket struct {
	sample models.ForecastSample
	midday bool
}

func groupDaily(samples []models.ForecastSample, now time.Time, loc *time.Location) []Entry {
	var order []string
	buckets := make(map[string]*dayBucket)

	for _, s := range samples {
		t := s.Time().In(loc)
		key := t.Format("2006-01-02")
		isMidday := t.Hour() >= middayStart && t.Hour() <= middayEnd

		b, ok := buckets[key]
		if !ok {
			buckets[key] = &dayBucket{sample: s, midday: isMidday}
			order = append(order, key)
			continue
		}
		// First midday sample for the date wins; later ones never replace it.
		if isMidday && !b.midday {
			b.sample = s
			b.midday = true
		}
	}

	if len(order) > dailyEntries {
		order = order[:dailyEntries]
	}

	today := now.In(loc).Format("2006-01-02")
	entries := make([]Entry, 0, len(order))
	for _, key := range order {
		s := buckets[key].sample
		isToday := key == today

		label := s.Time().In(loc).Format("Mon")
		if isToday {
			label = "Today"
		}
		entries = append(entries, Entry{
			Sample:      s,
			Label:       label,
			Highlighted: isToday,
		})
	}
	return entries
}
