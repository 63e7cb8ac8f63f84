package petrol

import "strings"

// Trend is the direction of the latest price change of a station.
type Trend int

const (
	TrendUnknown Trend = iota
	TrendUp
	TrendDown
	TrendFlat
)

func (t Trend) String() string {
	switch t {
	case TrendUp:
		return "up"
	case TrendDown:
		return "down"
	case TrendFlat:
		return "flat"
	default:
		return "unknown"
	}
}

// ChangeTrend reads the backend "changes" value: "+1.2C" is up, "-0.8C" is
// down and "0C" is flat.
func ChangeTrend(changes string) Trend {
	switch {
	case strings.HasPrefix(changes, "+"):
		return TrendUp
	case strings.HasPrefix(changes, "-"):
		return TrendDown
	case changes == "0C" || changes == "0":
		return TrendFlat
	default:
		return TrendUnknown
	}
}

// FormatChange returns the text shown in the Changes column.
func FormatChange(changes string) string {
	if changes == "" || ChangeTrend(changes) == TrendFlat {
		return "-"
	}
	return changes
}
