package olympics

import "errors"

var (
	// ErrNotActive is returned when an operation requires an active session.
	ErrNotActive = errors.New("session is not active")
	// ErrScheduleExhausted is returned when advancing past the last event.
	ErrScheduleExhausted = errors.New("no events left in schedule")
	// ErrNotFinished is returned when finalizing with events still pending.
	ErrNotFinished = errors.New("schedule has unplayed events")
	// ErrNotEligible is returned when a power-up activation precondition
	// fails: wrong event type, no power-ups defined, exhausted budget, or an
	// activation already recorded for the player on this instance. State is
	// never changed on rejection.
	ErrNotEligible = errors.New("player is not eligible for a power-up")
	// ErrUnknownPlayer is returned when a player id is not in the session.
	ErrUnknownPlayer = errors.New("player not in session")

	// ErrTooFewPlayers and ErrEmptySchedule reject invalid session starts
	// before anything is persisted.
	ErrTooFewPlayers = errors.New("session needs at least 2 players")
	ErrEmptySchedule = errors.New("session needs at least 1 scheduled event")
)
