package roster

import (
	"testing"

	"github.com/bryanseely/house-olympics/internal/olympics"
	"github.com/bryanseely/house-olympics/internal/store"
)

func seedPlayer(t *testing.T, st *store.Store, p Player) string {
	t.Helper()
	data, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	doc, err := st.Create(Collection, data)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	return doc.ID
}

func getPlayer(t *testing.T, st *store.Store, id string) Player {
	t.Helper()
	doc, ok := st.Get(Collection, id)
	if !ok {
		t.Fatalf("player %s not found", id)
	}
	p, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	return p
}

func TestAggregate_CounterMath(t *testing.T) {
	st, _ := store.Open("")
	alexID := seedPlayer(t, st, Player{Name: "Alex", LifetimeTotalPoints: 100, LifetimeGameWins: 4})
	samID := seedPlayer(t, st, Player{Name: "Sam", LifetimeStarsChamps: 1})

	sess := &olympics.Session{
		ID:            "s1",
		Status:        olympics.SessionCompleted,
		PointsChampID: alexID,
		StarsChampID:  samID,
		Players: []olympics.PlayerState{
			{ID: alexID, Score: 25, Stars: 1, TotalGameWins: 2},
			{ID: samID, Score: 18, Stars: 3, TotalGameWins: 1},
		},
	}

	if err := Aggregate(st, sess); err != nil {
		t.Fatalf("Aggregate error: %v", err)
	}

	alex := getPlayer(t, st, alexID)
	if alex.LifetimePointsChamps != 1 {
		t.Errorf("alex LifetimePointsChamps = %d, want 1", alex.LifetimePointsChamps)
	}
	if alex.LifetimeStarsChamps != 0 {
		t.Errorf("alex LifetimeStarsChamps = %d, want 0", alex.LifetimeStarsChamps)
	}
	if alex.LifetimeTotalPoints != 125 {
		t.Errorf("alex LifetimeTotalPoints = %d, want 125", alex.LifetimeTotalPoints)
	}
	if alex.LifetimeGameWins != 6 {
		t.Errorf("alex LifetimeGameWins = %d, want 6", alex.LifetimeGameWins)
	}
	if alex.LifetimeChallengeWins != 1 || alex.LifetimeTotalStars != 1 {
		t.Errorf("alex star counters = (%d, %d), want (1, 1)",
			alex.LifetimeChallengeWins, alex.LifetimeTotalStars)
	}

	sam := getPlayer(t, st, samID)
	if sam.LifetimeStarsChamps != 2 {
		t.Errorf("sam LifetimeStarsChamps = %d, want 2", sam.LifetimeStarsChamps)
	}
	if sam.LifetimePointsChamps != 0 {
		t.Errorf("sam LifetimePointsChamps = %d, want 0", sam.LifetimePointsChamps)
	}
	if sam.LifetimeChallengeWins != 3 || sam.LifetimeTotalStars != 3 {
		t.Errorf("sam star counters = (%d, %d), want (3, 3)",
			sam.LifetimeChallengeWins, sam.LifetimeTotalStars)
	}
	if sam.LifetimeTotalPoints != 18 {
		t.Errorf("sam LifetimeTotalPoints = %d, want 18", sam.LifetimeTotalPoints)
	}
}

func TestAggregate_SkipsDeletedPlayers(t *testing.T) {
	st, _ := store.Open("")
	keptID := seedPlayer(t, st, Player{Name: "Alex"})

	sess := &olympics.Session{
		ID:     "s1",
		Status: olympics.SessionCompleted,
		Players: []olympics.PlayerState{
			{ID: keptID, Score: 10, TotalGameWins: 1},
			{ID: "gone", Score: 50, TotalGameWins: 3},
		},
	}

	if err := Aggregate(st, sess); err != nil {
		t.Fatalf("Aggregate error: %v", err)
	}

	kept := getPlayer(t, st, keptID)
	if kept.LifetimeTotalPoints != 10 {
		t.Errorf("kept LifetimeTotalPoints = %d, want 10", kept.LifetimeTotalPoints)
	}
	if _, ok := st.Get(Collection, "gone"); ok {
		t.Errorf("deleted player should not be resurrected")
	}
}

func TestAggregate_NoParticipantsIsNoOp(t *testing.T) {
	st, _ := store.Open("")
	sess := &olympics.Session{ID: "s1", Status: olympics.SessionCompleted}

	if err := Aggregate(st, sess); err != nil {
		t.Fatalf("Aggregate error: %v", err)
	}
}

func TestHallOfFame(t *testing.T) {
	players := []Player{
		{ID: "a", LifetimePointsChamps: 1, LifetimeTotalPoints: 50},
		{ID: "b", LifetimePointsChamps: 3, LifetimeTotalPoints: 10},
		{ID: "c", LifetimePointsChamps: 1, LifetimeTotalPoints: 80},
	}

	got := HallOfFame(players)
	wantOrder := []string{"b", "c", "a"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Fatalf("hall of fame[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
	if players[0].ID != "a" {
		t.Errorf("HallOfFame mutated its input")
	}
}
