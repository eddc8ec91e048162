package aqi

import "strconv"

// Tier is the display classification of an air quality index.
type Tier struct {
	Label     string `json:"label"`
	Level     int    `json:"level"` // 1-5, 0 when unknown
	Width     int    `json:"width"` // percent of the severity bar
	Gradient  string `json:"gradient"`
	TextColor string `json:"text_color"`
}

// WidthCSS renders the bar width, e.g. "60%".
func (t Tier) WidthCSS() string {
	return strconv.Itoa(t.Width) + "%"
}

// Known reports whether the tier maps to a real index.
func (t Tier) Known() bool {
	return t.Level != 0
}

var levels = map[int]Tier{
	1: {Label: "Excellent", Level: 1, Width: 20, Gradient: "from-emerald-400 to-emerald-500", TextColor: "text-emerald-500"},
	2: {Label: "Good", Level: 2, Width: 40, Gradient: "from-green-400 to-green-500", TextColor: "text-green-500"},
	3: {Label: "Moderate", Level: 3, Width: 60, Gradient: "from-yellow-400 to-amber-500", TextColor: "text-amber-500"},
	4: {Label: "Poor", Level: 4, Width: 80, Gradient: "from-orange-400 to-orange-500", TextColor: "text-orange-500"},
	5: {Label: "Hazardous", Level: 5, Width: 100, Gradient: "from-red-500 to-rose-600", TextColor: "text-red-500"},
}

// Unknown is returned for any index outside 1-5.
var Unknown = Tier{Label: "Unknown", Gradient: "from-slate-300 to-slate-400", TextColor: "text-slate-400"}

var advice = map[int]string{
	1: "Ideal for most people.",
	2: "Generally acceptable.",
	3: "Sensitive groups may be affected.",
	4: "Everyone may begin to experience effects.",
	5: "Health warnings of emergency conditions.",
}

// Classify maps an index to its tier. 0 stands for a missing reading.
func Classify(index int) Tier {
	if t, ok := levels[index]; ok {
		return t
	}
	return Unknown
}

// Describe returns the health advice for an index, or "" when out of range.
func Describe(index int) string {
	return advice[index]
}

// Scale lists every known tier in severity order.
func Scale() []Tier {
	out := make([]Tier, 0, len(levels))
	for i := 1; i <= len(levels); i++ {
		out = append(out, levels[i])
	}
	return out
}
