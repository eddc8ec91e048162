package aqi

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		index     int
		wantLabel string
		wantWidth int
	}{
		{name: "Excellent", index: 1, wantLabel: "Excellent", wantWidth: 20},
		{name: "Good", index: 2, wantLabel: "Good", wantWidth: 40},
		{name: "Moderate", index: 3, wantLabel: "Moderate", wantWidth: 60},
		{name: "Poor", index: 4, wantLabel: "Poor", wantWidth: 80},
		{name: "Hazardous", index: 5, wantLabel: "Hazardous", wantWidth: 100},
		{name: "Missing reading", index: 0, wantLabel: "Unknown", wantWidth: 0},
		{name: "Above range", index: 6, wantLabel: "Unknown", wantWidth: 0},
		{name: "Negative", index: -1, wantLabel: "Unknown", wantWidth: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := Classify(tt.index)
			if tier.Label != tt.wantLabel {
				t.Errorf("Classify(%d).Label = %q, want %q", tt.index, tier.Label, tt.wantLabel)
			}
			if tier.Width != tt.wantWidth {
				t.Errorf("Classify(%d).Width = %d, want %d", tt.index, tier.Width, tt.wantWidth)
			}
		})
	}
}

func TestClassifyWidthIncreases(t *testing.T) {
	prev := 0
	for i := 1; i <= 5; i++ {
		w := Classify(i).Width
		if w <= prev {
			t.Fatalf("width for %d (%d) not greater than previous (%d)", i, w, prev)
		}
		prev = w
	}
}

func TestUnknownTier(t *testing.T) {
	tier := Classify(0)
	if tier.Known() {
		t.Error("index 0 should not be a known tier")
	}
	if tier.WidthCSS() != "0%" {
		t.Errorf("WidthCSS() = %q, want 0%%", tier.WidthCSS())
	}
	if Describe(0) != "" {
		t.Errorf("Describe(0) = %q, want empty", Describe(0))
	}
}

func TestScale(t *testing.T) {
	scale := Scale()
	if len(scale) != 5 {
		t.Fatalf("Scale() returned %d tiers, want 5", len(scale))
	}
	for i, tier := range scale {
		if tier.Level != i+1 {
			t.Errorf("scale[%d].Level = %d, want %d", i, tier.Level, i+1)
		}
		if Describe(tier.Level) == "" {
			t.Errorf("missing advice for level %d", tier.Level)
		}
	}
}
