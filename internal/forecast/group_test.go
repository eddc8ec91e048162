package forecast

import (
	"testing"
	"time"

	"github.com/bobby-s-dev/weather-dashboard/internal/models"
)

// samplesFrom builds n samples spaced step apart starting at start.
func samplesFrom(start time.Time, step time.Duration, n int) []models.ForecastSample {
	out := make([]models.ForecastSample, n)
	for i := range out {
		out[i] = models.ForecastSample{
			Timestamp:   start.Add(time.Duration(i) * step).Unix(),
			Temperature: float64(i),
			Condition:   "Clouds",
		}
	}
	return out
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", Hourly, false},
		{"24h", Hourly, false},
		{"hourly", Hourly, false},
		{"5day", Daily, false},
		{"DAILY", Daily, false},
		{"weekly", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGroupHourly(t *testing.T) {
	start := time.Date(2024, 5, 11, 9, 0, 0, 0, time.UTC)

	t.Run("Truncates to eight entries", func(t *testing.T) {
		entries := Group(samplesFrom(start, 3*time.Hour, 12), Hourly, start, time.UTC)
		if len(entries) != 8 {
			t.Fatalf("got %d entries, want 8", len(entries))
		}
		for i, e := range entries {
			if e.Highlighted != (i == 0) {
				t.Errorf("entry %d highlighted = %v", i, e.Highlighted)
			}
			if e.Sample.Temperature != float64(i) {
				t.Errorf("entry %d out of input order", i)
			}
		}
		want := []string{"09:00", "12:00", "15:00", "18:00", "21:00", "00:00", "03:00", "06:00"}
		for i, w := range want {
			if entries[i].Label != w {
				t.Errorf("entry %d label = %q, want %q", i, entries[i].Label, w)
			}
		}
	})

	t.Run("Returns fewer when fewer exist", func(t *testing.T) {
		entries := Group(samplesFrom(start, 3*time.Hour, 3), Hourly, start, time.UTC)
		if len(entries) != 3 {
			t.Fatalf("got %d entries, want 3", len(entries))
		}
	})

	t.Run("Heading reads Now for first entry", func(t *testing.T) {
		entries := Group(samplesFrom(start, 3*time.Hour, 2), Hourly, start, time.UTC)
		if entries[0].Heading(Hourly) != "Now" {
			t.Errorf("first heading = %q, want Now", entries[0].Heading(Hourly))
		}
		if entries[1].Heading(Hourly) != "12:00" {
			t.Errorf("second heading = %q, want 12:00", entries[1].Heading(Hourly))
		}
	})

	t.Run("Labels use the given location", func(t *testing.T) {
		loc := time.FixedZone("UTC+7", 7*3600)
		entries := Group(samplesFrom(start, 3*time.Hour, 1), Hourly, start, loc)
		if entries[0].Label != "16:00" {
			t.Errorf("label = %q, want 16:00", entries[0].Label)
		}
	})
}

func TestGroupDaily(t *testing.T) {
	day1 := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC) // Monday

	t.Run("Prefers midday sample per date", func(t *testing.T) {
		// 5 samples per date at 00,04,08,13,18 over 3 dates.
		var samples []models.ForecastSample
		for d := 0; d < 3; d++ {
			for _, h := range []int{0, 4, 8, 13, 18} {
				ts := day1.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour)
				temp := float64(h)
				if h == 13 {
					temp = 100 + float64(d)
				}
				samples = append(samples, models.ForecastSample{Timestamp: ts.Unix(), Temperature: temp, Condition: "Clear"})
			}
		}
		if len(samples) != 15 {
			t.Fatalf("fixture has %d samples", len(samples))
		}

		entries := Group(samples, Daily, day1, time.UTC)
		if len(entries) != 3 {
			t.Fatalf("got %d entries, want 3", len(entries))
		}
		for i, e := range entries {
			if e.Sample.Temperature != 100+float64(i) {
				t.Errorf("entry %d temp = %v, want midday temp %v", i, e.Sample.Temperature, 100+float64(i))
			}
		}
		if entries[0].Label != "Today" || !entries[0].Highlighted {
			t.Errorf("first entry = %+v, want highlighted Today", entries[0])
		}
		if entries[1].Label != "Tue" || entries[1].Highlighted {
			t.Errorf("second entry = %+v, want Tue", entries[1])
		}
	})

	t.Run("First midday sample wins", func(t *testing.T) {
		samples := []models.ForecastSample{
			{Timestamp: day1.Add(9 * time.Hour).Unix(), Temperature: 1},
			{Timestamp: day1.Add(12 * time.Hour).Unix(), Temperature: 2},
			{Timestamp: day1.Add(15 * time.Hour).Unix(), Temperature: 3},
		}
		entries := Group(samples, Daily, day1, time.UTC)
		if len(entries) != 1 || entries[0].Sample.Temperature != 2 {
			t.Fatalf("got %+v, want the 12:00 sample", entries)
		}
	})

	t.Run("Keeps first sample without midday", func(t *testing.T) {
		samples := []models.ForecastSample{
			{Timestamp: day1.Add(18 * time.Hour).Unix(), Temperature: 1},
			{Timestamp: day1.Add(21 * time.Hour).Unix(), Temperature: 2},
		}
		entries := Group(samples, Daily, day1, time.UTC)
		if len(entries) != 1 || entries[0].Sample.Temperature != 1 {
			t.Fatalf("got %+v, want the first sample", entries)
		}
	})

	t.Run("Truncates to five dates in order", func(t *testing.T) {
		samples := samplesFrom(day1.Add(12*time.Hour), 24*time.Hour, 7)
		entries := Group(samples, Daily, day1, time.UTC)
		if len(entries) != 5 {
			t.Fatalf("got %d entries, want 5", len(entries))
		}
		want := []string{"Today", "Tue", "Wed", "Thu", "Fri"}
		for i, w := range want {
			if entries[i].Label != w {
				t.Errorf("entry %d label = %q, want %q", i, entries[i].Label, w)
			}
		}
	})

	t.Run("No Today when now is another date", func(t *testing.T) {
		samples := samplesFrom(day1.Add(12*time.Hour), 24*time.Hour, 2)
		entries := Group(samples, Daily, day1.AddDate(0, 1, 0), time.UTC)
		for _, e := range entries {
			if e.Highlighted || e.Label == "Today" {
				t.Errorf("unexpected today entry %+v", e)
			}
		}
	})
}

func TestGroupEmpty(t *testing.T) {
	for _, mode := range []Mode{Hourly, Daily} {
		t.Run(string(mode), func(t *testing.T) {
			entries := Group(nil, mode, time.Now(), time.UTC)
			if entries == nil || len(entries) != 0 {
				t.Errorf("Group(nil, %s) = %#v, want empty slice", mode, entries)
			}
		})
	}
}

func TestGroupDoesNotMutateInput(t *testing.T) {
	start := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	samples := samplesFrom(start, 3*time.Hour, 16)
	before := append([]models.ForecastSample(nil), samples...)

	Group(samples, Daily, start, time.UTC)
	Group(samples, Hourly, start, time.UTC)

	for i := range samples {
		if samples[i] != before[i] {
			t.Fatalf("sample %d changed from %+v to %+v", i, before[i], samples[i])
		}
	}
}
