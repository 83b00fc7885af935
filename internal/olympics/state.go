package olympics

import (
	"encoding/json"
)

// EventType classifies pool events and the schedule instances built from them.
type EventType int

const (
	Game EventType = iota
	Challenge
	Break
)

var eventTypeNames = map[EventType]string{
	Game:      "game",
	Challenge: "challenge",
	Break:     "break",
}

var eventTypeFromName = map[string]EventType{
	"game":      Game,
	"challenge": Challenge,
	"break":     Break,
}

func (t EventType) String() string {
	if s, ok := eventTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

func (t EventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *EventType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if v, ok := eventTypeFromName[s]; ok {
		*t = v
	}
	return nil
}

// InstanceStatus tracks whether a scheduled event has been played yet.
type InstanceStatus int

const (
	Pending InstanceStatus = iota
	Completed
)

var instanceStatusNames = map[InstanceStatus]string{
	Pending:   "pending",
	Completed: "completed",
}

var instanceStatusFromName = map[string]InstanceStatus{
	"pending":   Pending,
	"completed": Completed,
}

func (s InstanceStatus) String() string {
	if n, ok := instanceStatusNames[s]; ok {
		return n
	}
	return "unknown"
}

func (s InstanceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InstanceStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if v, ok := instanceStatusFromName[name]; ok {
		*s = v
	}
	return nil
}

// SessionStatus is the lifecycle state of a tournament session. An abandoned
// session is deleted outright, so it has no status of its own.
type SessionStatus int

const (
	Active SessionStatus = iota
	SessionCompleted
)

var sessionStatusNames = map[SessionStatus]string{
	Active:           "active",
	SessionCompleted: "completed",
}

var sessionStatusFromName = map[string]SessionStatus{
	"active":    Active,
	"completed": SessionCompleted,
}

func (s SessionStatus) String() string {
	if n, ok := sessionStatusNames[s]; ok {
		return n
	}
	return "unknown"
}

func (s SessionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SessionStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if v, ok := sessionStatusFromName[name]; ok {
		*s = v
	}
	return nil
}

// PoolEvent is a reusable event definition from the external event pool.
// The engine treats it as read-only; scheduling copies its fields onto an
// EventInstance.
type PoolEvent struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        EventType `json:"type"`
	Category    string    `json:"category,omitempty"`    // games: sport, game, video_game
	Powerups    []string  `json:"powerups,omitempty"`    // games only
	Description string    `json:"description,omitempty"` // challenges only
}

// Activation records one player's power-up draw on one event instance.
type Activation struct {
	PlayerID string `json:"playerId"`
	Powerup  string `json:"powerup"`
}

// Results is the outcome recorded on a completed event instance. Points and
// Winners are set for games, Stars for challenges; a break records none.
type Results struct {
	Points  map[string]int `json:"points,omitempty"`
	Winners []string       `json:"winners,omitempty"`
	Stars   []string       `json:"stars,omitempty"`
}

// EventInstance is one scheduled occurrence of a pool event within a session.
// It is mutated only while it is the current instance and is frozen once
// Status is Completed.
type EventInstance struct {
	InstanceID     string         `json:"instanceId"`
	EventID        string         `json:"eventId"`
	Name           string         `json:"name"`
	Type           EventType      `json:"type"`
	Category       string         `json:"category,omitempty"`
	Powerups       []string       `json:"powerups,omitempty"`
	Description    string         `json:"description,omitempty"`
	Status         InstanceStatus `json:"status"`
	ActivePowerups []Activation   `json:"activePowerups"`
	Results        *Results       `json:"results,omitempty"`
}

// HasPowerups reports whether power-ups can be activated on this instance.
func (e *EventInstance) HasPowerups() bool {
	return e.Type == Game && len(e.Powerups) > 0
}

// ActivationFor returns the recorded activation for playerID, if any.
func (e *EventInstance) ActivationFor(playerID string) (Activation, bool) {
	for _, a := range e.ActivePowerups {
		if a.PlayerID == playerID {
			return a, true
		}
	}
	return Activation{}, false
}

func (e EventInstance) clone() EventInstance {
	if len(e.Powerups) > 0 {
		e.Powerups = append([]string(nil), e.Powerups...)
	}
	if len(e.ActivePowerups) > 0 {
		e.ActivePowerups = append([]Activation(nil), e.ActivePowerups...)
	}
	if e.Results != nil {
		r := *e.Results
		if len(r.Points) > 0 {
			pts := make(map[string]int, len(r.Points))
			for k, v := range r.Points {
				pts[k] = v
			}
			r.Points = pts
		}
		if len(r.Winners) > 0 {
			r.Winners = append([]string(nil), r.Winners...)
		}
		if len(r.Stars) > 0 {
			r.Stars = append([]string(nil), r.Stars...)
		}
		e.Results = &r
	}
	return e
}

// PlayerState is one participant's standing within a session. Name is a
// snapshot taken at session start so later roster renames don't affect a
// live session.
type PlayerState struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Score         int    `json:"score"`
	Stars         int    `json:"stars"`
	TotalGameWins int    `json:"totalGameWins"`
	PowerupsLeft  int    `json:"powerupsLeft"`
}

// Session is one tournament run: an ordered schedule of event instances, the
// per-player standings, and the pointer to the event currently being played.
type Session struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	CreatedAt         int64           `json:"createdAt"` // epoch ms
	Status            SessionStatus   `json:"status"`
	Players           []PlayerState   `json:"players"`
	Schedule          []EventInstance `json:"schedule"`
	CurrentEventIndex int             `json:"currentEventIndex"`
	MaxPowerups       int             `json:"maxPowerups"`
	PointsChampID     string          `json:"pointsChampId,omitempty"` // empty until completed
	StarsChampID      string          `json:"starsChampId,omitempty"`  // empty when no one earned a star
}

// Clone returns a deep copy of the Session, duplicating all nested slices and
// maps so the copy can be mutated independently of the original.
func (s *Session) Clone() *Session {
	c := *s
	if len(s.Players) > 0 {
		c.Players = append([]PlayerState(nil), s.Players...)
	}
	if len(s.Schedule) > 0 {
		c.Schedule = make([]EventInstance, len(s.Schedule))
		for i, e := range s.Schedule {
			c.Schedule[i] = e.clone()
		}
	}
	return &c
}

// IsFinished reports whether every scheduled event has been resolved.
func (s *Session) IsFinished() bool {
	return s.CurrentEventIndex >= len(s.Schedule)
}

// Current returns the event instance the session is waiting on. ok is false
// once the schedule is exhausted.
func (s *Session) Current() (*EventInstance, bool) {
	if s.IsFinished() {
		return nil, false
	}
	return &s.Schedule[s.CurrentEventIndex], true
}

// PlayerByID returns a pointer into Players for the given id.
func (s *Session) PlayerByID(id string) (*PlayerState, bool) {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i], true
		}
	}
	return nil, false
}
