package icons

// ID names the glyph drawn for a weather condition.
type ID string

const (
	Sun            ID = "sun"
	RainCloud      ID = "rain-cloud"
	PartlyCloudy   ID = "partly-cloudy"
	LightningCloud ID = "lightning-cloud"
	Snowflake      ID = "snowflake"
	Cloud          ID = "cloud"
)

// Select maps a provider condition ("Clear", "Rain", ...) to an icon.
// Matching is exact and case-sensitive; anything unrecognised gets Cloud.
func Select(condition string) ID {
	switch condition {
	case "Clear":
		return Sun
	case "Rain", "Drizzle":
		return RainCloud
	case "Clouds":
		return PartlyCloudy
	case "Thunderstorm":
		return LightningCloud
	case "Snow":
		return Snowflake
	default:
		return Cloud
	}
}

// Accent is the color token the glyph is drawn with.
func (id ID) Accent() string {
	switch id {
	case Sun:
		return "text-amber-400"
	case RainCloud:
		return "text-blue-400"
	case PartlyCloudy:
		return "text-slate-200"
	case LightningCloud:
		return "text-purple-400"
	case Snowflake:
		return "text-teal-200"
	default:
		return "text-slate-300"
	}
}
