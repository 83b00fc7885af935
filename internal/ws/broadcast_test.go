package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/bryanseely/house-olympics/internal/olympics"
	"github.com/bryanseely/house-olympics/internal/pool"
	"github.com/bryanseely/house-olympics/internal/roster"
	"github.com/bryanseely/house-olympics/internal/service"
	"github.com/bryanseely/house-olympics/internal/store"
)

func TestSnapshot(t *testing.T) {
	st, _ := store.Open("")

	data, _ := roster.Encode(roster.Player{Name: "Alex", LifetimePointsChamps: 1})
	if _, err := st.Create(roster.Collection, data); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	data, _ = roster.Encode(roster.Player{Name: "Sam", LifetimePointsChamps: 3})
	if _, err := st.Create(roster.Collection, data); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	data, _ = pool.Encode(olympics.PoolEvent{Name: "Mario Kart", Type: olympics.Game})
	if _, err := st.Create(pool.Collection, data); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	b := NewBroadcaster(st, 10*time.Millisecond, time.Hour)
	defer b.Close()

	snap := b.snapshot()
	if len(snap.Players) != 2 {
		t.Fatalf("snapshot has %d players, want 2", len(snap.Players))
	}
	if snap.Players[0].Name != "Sam" {
		t.Errorf("snapshot players should be in hall-of-fame order, head = %s", snap.Players[0].Name)
	}
	if len(snap.Events) != 1 || snap.Events[0].Name != "Mario Kart" {
		t.Errorf("snapshot events = %+v", snap.Events)
	}
	if snap.Sessions == nil || len(snap.Sessions) != 0 {
		t.Errorf("snapshot sessions should be an empty slice, got %v", snap.Sessions)
	}
}

func TestDecodeSessions_NewestFirst(t *testing.T) {
	st, _ := store.Open("")

	for _, s := range []*olympics.Session{
		{Name: "Old", CreatedAt: 100, Status: olympics.SessionCompleted},
		{Name: "New", CreatedAt: 300, Status: olympics.Active},
		{Name: "Middle", CreatedAt: 200, Status: olympics.SessionCompleted},
	} {
		data, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("marshal error: %v", err)
		}
		if _, err := st.Create(service.SessionCollection, data); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	sessions, err := decodeSessions(st.List(service.SessionCollection))
	if err != nil {
		t.Fatalf("decodeSessions error: %v", err)
	}

	wantOrder := []string{"New", "Middle", "Old"}
	for i, name := range wantOrder {
		if sessions[i].Name != name {
			t.Fatalf("sessions[%d] = %s, want %s", i, sessions[i].Name, name)
		}
	}
}

func TestBroadcasterClientCount(t *testing.T) {
	st, _ := store.Open("")
	b := NewBroadcaster(st, 10*time.Millisecond, time.Hour)
	defer b.Close()

	if b.ClientCount() != 0 {
		t.Errorf("fresh broadcaster has %d clients, want 0", b.ClientCount())
	}
}
