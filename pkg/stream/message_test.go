package stream

import (
	"errors"
	"testing"
)

func TestParseMessage(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		raw := []byte(`{"time":"12:30:05","actual_load":72.4,"predicted_load":70.1,"temperature":27.5,"humidity":55.0}`)
		msg, err := ParseMessage(raw)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := Message{Time: "12:30:05", ActualLoad: 72.4, PredictedLoad: 70.1, Temperature: 27.5, Humidity: 55}
		if msg != want {
			t.Errorf("expected %+v, got %+v", want, msg)
		}
	})

	t.Run("numeric time label keeps its text", func(t *testing.T) {
		raw := []byte(`{"time":1700000000,"actual_load":1,"predicted_load":2,"temperature":3,"humidity":4}`)
		msg, err := ParseMessage(raw)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if msg.Time != "1700000000" {
			t.Errorf("expected time label '1700000000', got %q", msg.Time)
		}
	})

	t.Run("extra fields are ignored", func(t *testing.T) {
		raw := []byte(`{"time":"t","actual_load":1,"predicted_load":2,"temperature":3,"humidity":4,"zone":"A"}`)
		if _, err := ParseMessage(raw); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestParseMessage_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ``},
		{"not json", `hello`},
		{"truncated", `{"time":"t","actual_load":1`},
		{"array", `[1,2,3]`},
		{"missing time", `{"actual_load":1,"predicted_load":2,"temperature":3,"humidity":4}`},
		{"null time", `{"time":null,"actual_load":1,"predicted_load":2,"temperature":3,"humidity":4}`},
		{"missing humidity", `{"time":"t","actual_load":1,"predicted_load":2,"temperature":3}`},
		{"string load", `{"time":"t","actual_load":"1","predicted_load":2,"temperature":3,"humidity":4}`},
		{"bool temperature", `{"time":"t","actual_load":1,"predicted_load":2,"temperature":true,"humidity":4}`},
		{"non-finite load", `{"time":"t","actual_load":1e400,"predicted_load":2,"temperature":3,"humidity":4}`},
		{"non-finite humidity", `{"time":"t","actual_load":1,"predicted_load":2,"temperature":3,"humidity":-1e400}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMessage([]byte(tt.raw))
			if err == nil {
				t.Fatalf("expected error for %q", tt.raw)
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}
		})
	}
}
