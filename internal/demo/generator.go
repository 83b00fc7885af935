// Package demo seeds a sample roster and event pool and plays tournaments
// through the real engine so clients have a live stream to watch without
// anyone entering results by hand.
package demo

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/bryanseely/house-olympics/internal/olympics"
	"github.com/bryanseely/house-olympics/internal/pool"
	"github.com/bryanseely/house-olympics/internal/roster"
	"github.com/bryanseely/house-olympics/internal/service"
	"github.com/bryanseely/house-olympics/internal/store"
)

var demoPlayers = []string{"Alex", "Sam", "Priya", "Marcus"}

var demoEvents = []olympics.PoolEvent{
	{
		Name:     "Mario Kart",
		Type:     olympics.Game,
		Category: "video_game",
		Powerups: []string{"Play blindfolded", "+5 extra points", "Steal a point from the leader", "Swap controllers"},
	},
	{
		Name:     "Ping Pong",
		Type:     olympics.Game,
		Category: "sport",
		Powerups: []string{"Opponent plays left-handed", "Double points this round"},
	},
	{
		Name:     "Poker",
		Type:     olympics.Game,
		Category: "game",
	},
	{
		Name:        "One-Leg Stand",
		Type:        olympics.Challenge,
		Description: "Stand on one leg for two minutes. Wobbling is fine, touching down is not.",
	},
	{
		Name: "Snack Time",
		Type: olympics.Break,
	},
}

type Generator struct {
	store    *store.Store
	svc      *service.Service
	rng      olympics.RandomSource
	interval time.Duration
}

func NewGenerator(st *store.Store, svc *service.Service, rng olympics.RandomSource, interval time.Duration) *Generator {
	if rng == nil {
		rng = olympics.DefaultRNG()
	}
	return &Generator{store: st, svc: svc, rng: rng, interval: interval}
}

// Start seeds the collections and begins playing sessions until ctx is done.
func (g *Generator) Start(ctx context.Context) {
	if err := g.seed(); err != nil {
		log.Printf("demo seed error: %v", err)
		return
	}
	go g.run(ctx)
}

// seed creates the sample roster and pool, skipping collections that already
// hold data so restarts don't duplicate them.
func (g *Generator) seed() error {
	players, err := roster.List(g.store)
	if err != nil {
		return err
	}
	if len(players) == 0 {
		for _, name := range demoPlayers {
			data, err := roster.Encode(roster.Player{Name: name})
			if err != nil {
				return err
			}
			if _, err := g.store.Create(roster.Collection, data); err != nil {
				return err
			}
		}
	}

	events, err := pool.List(g.store)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		for _, ev := range demoEvents {
			data, err := pool.Encode(ev)
			if err != nil {
				return err
			}
			if _, err := g.store.Create(pool.Collection, data); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Generator) run(ctx context.Context) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := g.tick(); err != nil {
				log.Printf("demo tick error: %v", err)
			}
		}
	}
}

// tick plays one step: start a session if none is live, otherwise activate
// the odd power-up, advance the current event, and finalize when the
// schedule runs out.
func (g *Generator) tick() error {
	sess, ok, err := g.svc.ActiveSession()
	if err != nil {
		return err
	}
	if !ok {
		return g.startSession()
	}

	if sess.IsFinished() {
		final, err := g.svc.Finalize(sess.ID)
		if err != nil {
			return err
		}
		log.Printf("demo: %q complete, points champ %s, stars champ %s",
			final.Name, final.PointsChampID, final.StarsChampID)
		return nil
	}

	cur, _ := sess.Current()
	if cur.HasPowerups() {
		for _, p := range sess.Players {
			if p.PowerupsLeft > 0 && g.rng.IntN(4) == 0 {
				if _, _, err := g.svc.ActivatePowerup(sess.ID, p.ID); err != nil &&
					!errors.Is(err, olympics.ErrNotEligible) {
					return err
				}
			}
		}
	}

	_, err = g.svc.AdvanceEvent(sess.ID, g.outcome(sess, cur))
	return err
}

func (g *Generator) startSession() error {
	players, err := roster.List(g.store)
	if err != nil {
		return err
	}
	events, err := pool.List(g.store)
	if err != nil {
		return err
	}
	if len(players) < 2 || len(events) == 0 {
		return nil
	}

	playerIDs := make([]string, len(players))
	for i, p := range players {
		playerIDs[i] = p.ID
	}
	eventIDs := make([]string, len(events))
	for i, ev := range events {
		eventIDs[i] = ev.ID
	}

	name := "House Olympics " + time.Now().Format("15:04:05")
	sess, err := g.svc.StartSession(name, playerIDs, eventIDs, 2)
	if err != nil {
		return err
	}
	log.Printf("demo: started %q with %d players, %d events", sess.Name, len(sess.Players), len(sess.Schedule))
	return nil
}

func (g *Generator) outcome(sess *olympics.Session, cur *olympics.EventInstance) olympics.Outcome {
	var out olympics.Outcome
	switch cur.Type {
	case olympics.Game:
		out.Points = make(map[string]int, len(sess.Players))
		for _, p := range sess.Players {
			out.Points[p.ID] = g.rng.IntN(11)
		}
	case olympics.Challenge:
		for _, p := range sess.Players {
			if g.rng.IntN(2) == 0 {
				out.Stars = append(out.Stars, p.ID)
			}
		}
	}
	return out
}
