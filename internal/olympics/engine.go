package olympics

import (
	"time"

	"github.com/google/uuid"
)

// Entrant identifies a roster player selected into a new session.
type Entrant struct {
	ID   string
	Name string
}

// NewSession validates the start inputs and builds an active session. Every
// scheduled pool event becomes a fresh pending EventInstance with its own id,
// and each entrant starts with a full power-up budget. Nothing is persisted
// here; the caller owns storage.
func NewSession(name string, entrants []Entrant, schedule []PoolEvent, maxPowerups int, now time.Time) (*Session, error) {
	if len(entrants) < 2 {
		return nil, ErrTooFewPlayers
	}
	if len(schedule) == 0 {
		return nil, ErrEmptySchedule
	}
	if maxPowerups < 0 {
		maxPowerups = 0
	}

	players := make([]PlayerState, len(entrants))
	for i, e := range entrants {
		players[i] = PlayerState{
			ID:           e.ID,
			Name:         e.Name,
			PowerupsLeft: maxPowerups,
		}
	}

	instances := make([]EventInstance, len(schedule))
	for i, ev := range schedule {
		instances[i] = EventInstance{
			InstanceID:     uuid.NewString(),
			EventID:        ev.ID,
			Name:           ev.Name,
			Type:           ev.Type,
			Category:       ev.Category,
			Powerups:       append([]string(nil), ev.Powerups...),
			Description:    ev.Description,
			Status:         Pending,
			ActivePowerups: []Activation{},
		}
	}

	return &Session{
		Name:              name,
		CreatedAt:         now.UnixMilli(),
		Status:            Active,
		Players:           players,
		Schedule:          instances,
		CurrentEventIndex: 0,
		MaxPowerups:       maxPowerups,
	}, nil
}

// AdvanceEvent resolves the current event instance with the given outcome and
// moves the pointer to the next one. Games fold points and win credits into
// the standings, challenges grant stars, breaks record nothing. The input
// session is never mutated; the returned session carries the completed
// instance, the updated players, and the advanced pointer together so a
// single write persists them atomically.
func AdvanceEvent(s *Session, out Outcome) (*Session, error) {
	if s.Status != Active {
		return nil, ErrNotActive
	}
	if s.IsFinished() {
		return nil, ErrScheduleExhausted
	}

	next := s.Clone()
	cur := &next.Schedule[next.CurrentEventIndex]

	switch cur.Type {
	case Game:
		cur.Results = resolveGame(out.Points, next.Players)
	case Challenge:
		cur.Results = resolveChallenge(out.Stars, next.Players)
	case Break:
		cur.Results = &Results{}
	}
	cur.Status = Completed
	next.CurrentEventIndex++

	return next, nil
}

// ActivatePowerup draws one power-up uniformly at random from the current
// game's list for the given player, records the activation on the instance,
// and spends one unit of the player's budget. The draw is independent per
// call and with replacement: two players may roll the same text. Ineligible
// calls return ErrNotEligible and leave the session untouched.
func ActivatePowerup(s *Session, playerID string, rng RandomSource) (*Session, string, error) {
	if s.Status != Active {
		return nil, "", ErrNotActive
	}
	cur, ok := s.Current()
	if !ok {
		return nil, "", ErrScheduleExhausted
	}
	if !cur.HasPowerups() {
		return nil, "", ErrNotEligible
	}
	player, ok := s.PlayerByID(playerID)
	if !ok {
		return nil, "", ErrUnknownPlayer
	}
	if player.PowerupsLeft <= 0 {
		return nil, "", ErrNotEligible
	}
	if _, used := cur.ActivationFor(playerID); used {
		return nil, "", ErrNotEligible
	}

	if rng == nil {
		rng = DefaultRNG()
	}
	drawn := cur.Powerups[rng.IntN(len(cur.Powerups))]

	next := s.Clone()
	inst := &next.Schedule[next.CurrentEventIndex]
	inst.ActivePowerups = append(inst.ActivePowerups, Activation{PlayerID: playerID, Powerup: drawn})
	p, _ := next.PlayerByID(playerID)
	p.PowerupsLeft--

	return next, drawn, nil
}

// Finalize crowns the champions and marks the session completed. It only
// transitions sessions that are Active with an exhausted schedule, so calling
// it again on a completed session fails instead of re-applying side effects.
// Lifetime aggregation is the caller's next step after a successful
// transition.
func Finalize(s *Session) (*Session, error) {
	if s.Status != Active {
		return nil, ErrNotActive
	}
	if !s.IsFinished() {
		return nil, ErrNotFinished
	}

	next := s.Clone()
	next.PointsChampID, next.StarsChampID = Champions(next.Players)
	next.Status = SessionCompleted
	return next, nil
}
