package olympics

import (
	"encoding/json"
	"testing"
)

func TestEventTypeMarshalJSON(t *testing.T) {
	tests := []struct {
		eventType EventType
		expected  string
	}{
		{Game, `"game"`},
		{Challenge, `"challenge"`},
		{Break, `"break"`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.eventType)
		if err != nil {
			t.Errorf("Marshal(%v) error: %v", tt.eventType, err)
			continue
		}
		if string(data) != tt.expected {
			t.Errorf("Marshal(%v) = %s, want %s", tt.eventType, data, tt.expected)
		}
	}
}

func TestEventTypeUnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected EventType
	}{
		{`"game"`, Game},
		{`"challenge"`, Challenge},
		{`"break"`, Break},
	}

	for _, tt := range tests {
		var et EventType
		if err := json.Unmarshal([]byte(tt.input), &et); err != nil {
			t.Errorf("Unmarshal(%s) error: %v", tt.input, err)
			continue
		}
		if et != tt.expected {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, et, tt.expected)
		}
	}
}

func TestSessionStatusJSON(t *testing.T) {
	data, err := json.Marshal(SessionCompleted)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != `"completed"` {
		t.Errorf("Marshal(SessionCompleted) = %s, want %q", data, "completed")
	}

	var status SessionStatus
	if err := json.Unmarshal([]byte(`"active"`), &status); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if status != Active {
		t.Errorf("Unmarshal(active) = %v, want Active", status)
	}
}

func TestSessionJSONFieldNames(t *testing.T) {
	sess := newTestSession(t)

	data, err := json.Marshal(sess)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal to map error: %v", err)
	}
	for _, field := range []string{"name", "createdAt", "status", "players", "schedule", "currentEventIndex", "maxPowerups"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("JSON should contain %q field", field)
		}
	}
	if _, ok := raw["pointsChampId"]; ok {
		t.Errorf("pointsChampId should be omitted until the session completes")
	}
}

func TestHasPowerups(t *testing.T) {
	tests := []struct {
		name     string
		instance EventInstance
		want     bool
	}{
		{"GameWithPowerups", EventInstance{Type: Game, Powerups: []string{"x"}}, true},
		{"GameWithoutPowerups", EventInstance{Type: Game}, false},
		{"Challenge", EventInstance{Type: Challenge, Powerups: []string{"x"}}, false},
		{"Break", EventInstance{Type: Break}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.instance.HasPowerups(); got != tt.want {
				t.Errorf("HasPowerups() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCurrentAndIsFinished(t *testing.T) {
	sess := newTestSession(t)

	cur, ok := sess.Current()
	if !ok || cur.EventID != "e1" {
		t.Fatalf("Current() = %+v, %v; want the first instance", cur, ok)
	}
	if sess.IsFinished() {
		t.Errorf("fresh session should not be finished")
	}

	sess.CurrentEventIndex = len(sess.Schedule)
	if _, ok := sess.Current(); ok {
		t.Errorf("Current() should report no instance once the schedule is exhausted")
	}
	if !sess.IsFinished() {
		t.Errorf("session past the last event should be finished")
	}
}
