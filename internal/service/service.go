// Package service drives the session engine against the document store:
// every mutation is a read-modify-write cycle with a conditional replace,
// retried when a concurrent writer got there first.
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bryanseely/house-olympics/internal/olympics"
	"github.com/bryanseely/house-olympics/internal/pool"
	"github.com/bryanseely/house-olympics/internal/roster"
	"github.com/bryanseely/house-olympics/internal/store"
)

// SessionCollection is the store collection holding session documents.
const SessionCollection = "sessions"

const mutateRetries = 3

var (
	// ErrActiveSessionExists rejects starting a second live session.
	ErrActiveSessionExists = errors.New("an active session already exists")
	// ErrSessionNotFound is returned for unknown session ids.
	ErrSessionNotFound = errors.New("session not found")
	// ErrUnknownEvent is returned when a scheduled event id is not in the pool.
	ErrUnknownEvent = errors.New("event not in pool")
	// ErrUnknownPlayer is returned when a selected player id is not on the roster.
	ErrUnknownPlayer = errors.New("player not on roster")
)

// Service owns the orchestration between the engine and the store.
type Service struct {
	store *store.Store
	rng   olympics.RandomSource
	now   func() time.Time
}

// New creates a Service. rng may be nil to use the default source; tests
// inject a seeded one.
func New(st *store.Store, rng olympics.RandomSource) *Service {
	if rng == nil {
		rng = olympics.DefaultRNG()
	}
	return &Service{store: st, rng: rng, now: time.Now}
}

// DecodeSession unmarshals a session document, stamping the document id.
func DecodeSession(doc store.Document) (*olympics.Session, error) {
	var sess olympics.Session
	if err := json.Unmarshal(doc.Data, &sess); err != nil {
		return nil, fmt.Errorf("parsing session %s: %w", doc.ID, err)
	}
	sess.ID = doc.ID
	return &sess, nil
}

func encodeSession(sess *olympics.Session) (json.RawMessage, error) {
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("marshaling session %s: %w", sess.ID, err)
	}
	return data, nil
}

// StartSession validates the selection, snapshots the chosen roster players,
// builds the schedule from the pool, and persists the new active session.
// Validation failures happen before anything is written, and only one active
// session may exist at a time.
func (s *Service) StartSession(name string, playerIDs, eventIDs []string, maxPowerups int) (*olympics.Session, error) {
	if _, ok, err := s.ActiveSession(); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrActiveSessionExists
	}

	entrants := make([]olympics.Entrant, 0, len(playerIDs))
	for _, id := range playerIDs {
		doc, ok := s.store.Get(roster.Collection, id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
		}
		p, err := roster.Decode(doc)
		if err != nil {
			return nil, err
		}
		entrants = append(entrants, olympics.Entrant{ID: p.ID, Name: p.Name})
	}

	schedule := make([]olympics.PoolEvent, 0, len(eventIDs))
	for _, id := range eventIDs {
		doc, ok := s.store.Get(pool.Collection, id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, id)
		}
		ev, err := pool.Decode(doc)
		if err != nil {
			return nil, err
		}
		schedule = append(schedule, ev)
	}

	sess, err := olympics.NewSession(name, entrants, schedule, maxPowerups, s.now())
	if err != nil {
		return nil, err
	}

	data, err := encodeSession(sess)
	if err != nil {
		return nil, err
	}
	doc, err := s.store.Create(SessionCollection, data)
	if err != nil {
		return nil, err
	}
	sess.ID = doc.ID
	return sess, nil
}

// mutateSession runs fn inside a read-modify-write cycle against the session
// document, retrying the whole cycle when the conditional replace loses a
// race. fn receives a fresh snapshot each attempt and returns the replacement.
func (s *Service) mutateSession(id string, fn func(*olympics.Session) (*olympics.Session, error)) (*olympics.Session, error) {
	for attempt := 0; ; attempt++ {
		doc, ok := s.store.Get(SessionCollection, id)
		if !ok {
			return nil, ErrSessionNotFound
		}
		sess, err := DecodeSession(doc)
		if err != nil {
			return nil, err
		}
		next, err := fn(sess)
		if err != nil {
			return nil, err
		}
		data, err := encodeSession(next)
		if err != nil {
			return nil, err
		}
		if _, err := s.store.Replace(SessionCollection, id, data, doc.Version); err != nil {
			if errors.Is(err, store.ErrVersionConflict) && attempt < mutateRetries {
				continue
			}
			return nil, err
		}
		return next, nil
	}
}

// AdvanceEvent resolves the current event of the session with the given
// outcome. The completed instance, updated standings, and advanced pointer
// land in one document write.
func (s *Service) AdvanceEvent(sessionID string, out olympics.Outcome) (*olympics.Session, error) {
	return s.mutateSession(sessionID, func(sess *olympics.Session) (*olympics.Session, error) {
		return olympics.AdvanceEvent(sess, out)
	})
}

// ActivatePowerup draws a power-up for the player on the current event and
// returns the drawn text for display.
func (s *Service) ActivatePowerup(sessionID, playerID string) (string, *olympics.Session, error) {
	var drawn string
	sess, err := s.mutateSession(sessionID, func(sess *olympics.Session) (*olympics.Session, error) {
		next, text, err := olympics.ActivatePowerup(sess, playerID, s.rng)
		if err != nil {
			return nil, err
		}
		drawn = text
		return next, nil
	})
	if err != nil {
		return "", nil, err
	}
	return drawn, sess, nil
}

// Finalize crowns the champions, completes the session, and folds the final
// standings into the roster's lifetime counters. The engine only permits the
// Active -> Completed transition, so a repeated call fails before any
// aggregation can be double-applied.
func (s *Service) Finalize(sessionID string) (*olympics.Session, error) {
	sess, err := s.mutateSession(sessionID, olympics.Finalize)
	if err != nil {
		return nil, err
	}
	if err := roster.Aggregate(s.store, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Abandon deletes the session outright: no champions, no aggregation, no
// trace. Irreversible.
func (s *Service) Abandon(sessionID string) error {
	if err := s.store.Delete(SessionCollection, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// Session returns the session with the given id.
func (s *Service) Session(sessionID string) (*olympics.Session, error) {
	doc, ok := s.store.Get(SessionCollection, sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return DecodeSession(doc)
}

// Sessions returns every session, newest first.
func (s *Service) Sessions() ([]*olympics.Session, error) {
	docs := s.store.List(SessionCollection)
	sessions := make([]*olympics.Session, 0, len(docs))
	for _, doc := range docs {
		sess, err := DecodeSession(doc)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt > sessions[j].CreatedAt
	})
	return sessions, nil
}

// ActiveSession returns the live session, if there is one.
func (s *Service) ActiveSession() (*olympics.Session, bool, error) {
	sessions, err := s.Sessions()
	if err != nil {
		return nil, false, err
	}
	for _, sess := range sessions {
		if sess.Status == olympics.Active {
			return sess, true, nil
		}
	}
	return nil, false, nil
}
