package readout

import (
	"math"
	"strconv"

	"load-monitor/pkg/stream"
)

// DeviationThreshold is the largest |actual - predicted| still treated as on track.
const DeviationThreshold = 5.0

// Insight classifies how actual load compares with the forecast.
type Insight string

// Allowed Insight values.
const (
	InsightStabilized Insight = "stabilized"
	InsightSurge      Insight = "surge"
	InsightEasing     Insight = "easing"
)

// Status messages shown in the insight field outside of normal data flow.
const (
	StatusConnected    = "Connection established. Receiving live predictions..."
	StatusReconnecting = "Connection lost. Reconnecting..."
)

// Message returns the text shown to the user for an insight.
func (i Insight) Message() string {
	switch i {
	case InsightStabilized:
		return "Stabilized flow. Predictions are accurately tracking actual cafeteria load."
	case InsightSurge:
		return "Surge alert! Actual load is higher than predicted. Lunch-hour rush peaking."
	case InsightEasing:
		return "Load easing. Current occupancy is below predicted levels."
	default:
		return ""
	}
}

// Readout holds the display text for every on-screen field of one message.
type Readout struct {
	ActualLoad    string
	PredictedLoad string
	Temperature   string
	Humidity      string
	Insight       Insight
}

// InsightText is the message for r.Insight.
func (r Readout) InsightText() string { return r.Insight.Message() }

// Project derives the readout for a single message. No history is consulted.
func Project(msg stream.Message) Readout {
	return Readout{
		ActualLoad:    FormatNumber(msg.ActualLoad),
		PredictedLoad: FormatNumber(msg.PredictedLoad),
		Temperature:   FormatNumber(msg.Temperature) + "°C",
		Humidity:      FormatNumber(msg.Humidity) + "%",
		Insight:       Classify(msg.ActualLoad, msg.PredictedLoad),
	}
}

// Classify compares actual against predicted load. The checks run in order and
// the first match wins:
//
//	|diff| <= 5  stabilized
//	diff > 5     surge
//	otherwise    easing
//
// Both boundaries (diff == 5 and diff == -5) are stabilized.
func Classify(actual, predicted float64) Insight {
	diff := actual - predicted
	if math.Abs(diff) <= DeviationThreshold {
		return InsightStabilized
	}
	if diff > DeviationThreshold {
		return InsightSurge
	}
	return InsightEasing
}

// FormatNumber renders v with the fewest digits that round-trip, so 42 prints
// as "42" and 42.5 as "42.5".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
