package mock

import (
	"reflect"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	now := time.Date(2024, 5, 11, 10, 0, 0, 0, time.UTC)
	bundle := Generate("Paris", now)

	if bundle.Weather.Name != "Paris" {
		t.Errorf("Name = %q, want Paris", bundle.Weather.Name)
	}
	if len(bundle.Forecast) != 8 {
		t.Fatalf("got %d forecast samples, want 8", len(bundle.Forecast))
	}
	if bundle.Pollution.AQI != 1 {
		t.Errorf("AQI = %d, want 1", bundle.Pollution.AQI)
	}

	for i, s := range bundle.Forecast {
		want := "Clouds"
		if i%4 == 0 {
			want = "Rain"
		}
		if s.Condition != want {
			t.Errorf("sample %d condition = %q, want %q", i, s.Condition, want)
		}
		if s.Timestamp != now.Add(time.Duration(i)*3*time.Hour).Unix() {
			t.Errorf("sample %d timestamp not spaced by 3h", i)
		}
		if s.Temperature != 24-float64(i)*0.5 {
			t.Errorf("sample %d temp = %v", i, s.Temperature)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	now := time.Date(2024, 5, 11, 10, 0, 0, 0, time.UTC)
	a := Generate("Paris", now)
	b := Generate("Paris", now)
	if !reflect.DeepEqual(a, b) {
		t.Error("Generate should return identical bundles for identical input")
	}
}

func TestGenerateDefaultCity(t *testing.T) {
	bundle := Generate("", time.Now())
	if bundle.Weather.Name != "New York" {
		t.Errorf("Name = %q, want New York", bundle.Weather.Name)
	}
}
