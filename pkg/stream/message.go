package stream

import (
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

// ErrParse marks a payload that is not a valid stream message.
var ErrParse = errors.New("invalid stream message")

// Message is one sample pushed by the load feed.
type Message struct {
	Time          string  `json:"time"`
	ActualLoad    float64 `json:"actual_load"`
	PredictedLoad float64 `json:"predicted_load"`
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
}

// Payload field names.
const (
	FieldTime          = "time"
	FieldActualLoad    = "actual_load"
	FieldPredictedLoad = "predicted_load"
	FieldTemperature   = "temperature"
	FieldHumidity      = "humidity"
)

var numericFields = []string{FieldActualLoad, FieldPredictedLoad, FieldTemperature, FieldHumidity}

// ParseMessage decodes a JSON payload into a Message. The time label may be a
// string or a number; every other field must be a finite number. Errors wrap
// ErrParse.
func ParseMessage(data []byte) (Message, error) {
	var msg Message
	if !gjson.ValidBytes(data) {
		return msg, fmt.Errorf("%w: payload is not valid JSON", ErrParse)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return msg, fmt.Errorf("%w: payload is not a JSON object", ErrParse)
	}

	label := root.Get(FieldTime)
	switch label.Type {
	case gjson.String:
		msg.Time = label.String()
	case gjson.Number:
		msg.Time = label.Raw
	default:
		return msg, fmt.Errorf("%w: field %q missing or not a label", ErrParse, FieldTime)
	}

	values := make([]float64, len(numericFields))
	for i, name := range numericFields {
		v := root.Get(name)
		if v.Type != gjson.Number {
			return msg, fmt.Errorf("%w: field %q missing or not a number", ErrParse, name)
		}
		f := v.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return msg, fmt.Errorf("%w: field %q is out of range", ErrParse, name)
		}
		values[i] = f
	}
	msg.ActualLoad = values[0]
	msg.PredictedLoad = values[1]
	msg.Temperature = values[2]
	msg.Humidity = values[3]
	return msg, nil
}
