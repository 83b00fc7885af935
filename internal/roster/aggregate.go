package roster

import (
	"errors"
	"fmt"
	"log"

	"github.com/bryanseely/house-olympics/internal/olympics"
	"github.com/bryanseely/house-olympics/internal/store"
)

const aggregateRetries = 3

// Aggregate folds a finalized session into the lifetime counters of every
// roster player who took part. All per-player updates go through one batched
// conditional write so a transport failure can never leave half the roster
// updated. Players deleted from the roster since the session started are
// skipped.
//
// Callers must invoke this exactly once per session, on the transition out
// of Active; the session engine's finalize guard enforces that.
func Aggregate(st *store.Store, sess *olympics.Session) error {
	for attempt := 0; ; attempt++ {
		updates, err := buildUpdates(st, sess)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}

		err = st.ReplaceBatch(Collection, updates)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrVersionConflict) || attempt >= aggregateRetries {
			return fmt.Errorf("aggregating session %s: %w", sess.ID, err)
		}
		log.Printf("roster aggregate conflict for session %s, retrying", sess.ID)
	}
}

func buildUpdates(st *store.Store, sess *olympics.Session) ([]store.Update, error) {
	updates := make([]store.Update, 0, len(sess.Players))
	for _, ps := range sess.Players {
		doc, ok := st.Get(Collection, ps.ID)
		if !ok {
			continue
		}
		p, err := Decode(doc)
		if err != nil {
			return nil, err
		}

		if sess.PointsChampID == ps.ID {
			p.LifetimePointsChamps++
		}
		if sess.StarsChampID == ps.ID {
			p.LifetimeStarsChamps++
		}
		p.LifetimeGameWins += ps.TotalGameWins
		p.LifetimeChallengeWins += ps.Stars
		p.LifetimeTotalPoints += ps.Score
		p.LifetimeTotalStars += ps.Stars

		data, err := Encode(p)
		if err != nil {
			return nil, err
		}
		updates = append(updates, store.Update{
			ID:            ps.ID,
			ExpectVersion: doc.Version,
			Data:          data,
		})
	}
	return updates, nil
}
