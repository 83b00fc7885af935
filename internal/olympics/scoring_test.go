package olympics

import (
	"sort"
	"testing"
)

func testPlayers() []PlayerState {
	return []PlayerState{
		{ID: "p1", Name: "Alex", PowerupsLeft: 2},
		{ID: "p2", Name: "Sam", PowerupsLeft: 2},
		{ID: "p3", Name: "Priya", PowerupsLeft: 2},
	}
}

func TestResolveGame_WinnerSet(t *testing.T) {
	tests := []struct {
		name        string
		points      map[string]int
		wantWinners []string
	}{
		{
			name:        "SingleWinner",
			points:      map[string]int{"p1": 10, "p2": 7, "p3": 3},
			wantWinners: []string{"p1"},
		},
		{
			name:        "TiedWinners",
			points:      map[string]int{"p1": 10, "p2": 10, "p3": 3},
			wantWinners: []string{"p1", "p2"},
		},
		{
			name:        "AllZero",
			points:      map[string]int{"p1": 0, "p2": 0, "p3": 0},
			wantWinners: []string{"p1", "p2", "p3"},
		},
		{
			name:        "NoEntries",
			points:      map[string]int{},
			wantWinners: nil,
		},
		{
			name:        "MissingEntryIsNotAWinner",
			points:      map[string]int{"p2": 4},
			wantWinners: []string{"p2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players := testPlayers()
			res := resolveGame(tt.points, players)

			got := append([]string(nil), res.Winners...)
			sort.Strings(got)
			want := append([]string(nil), tt.wantWinners...)
			sort.Strings(want)
			if len(got) != len(want) {
				t.Fatalf("winners = %v, want %v", got, want)
			}
			for i := range got {
				if got[i] != want[i] {
					t.Fatalf("winners = %v, want %v", got, want)
				}
			}
		})
	}
}

func TestResolveGame_ZeroPointWinnerGetsNoWinCredit(t *testing.T) {
	players := testPlayers()
	resolveGame(map[string]int{"p1": 0, "p2": 0, "p3": 0}, players)

	for _, p := range players {
		if p.TotalGameWins != 0 {
			t.Errorf("%s TotalGameWins = %d, want 0", p.ID, p.TotalGameWins)
		}
		if p.Score != 0 {
			t.Errorf("%s Score = %d, want 0", p.ID, p.Score)
		}
	}
}

func TestResolveGame_ScoreAndWinDeltas(t *testing.T) {
	players := testPlayers()
	players[0].Score = 5

	res := resolveGame(map[string]int{"p1": 10, "p2": 10, "p3": 4}, players)

	if players[0].Score != 15 {
		t.Errorf("p1 Score = %d, want 15", players[0].Score)
	}
	if players[0].TotalGameWins != 1 || players[1].TotalGameWins != 1 {
		t.Errorf("tied winners should both get a win, got p1=%d p2=%d",
			players[0].TotalGameWins, players[1].TotalGameWins)
	}
	if players[2].TotalGameWins != 0 {
		t.Errorf("p3 TotalGameWins = %d, want 0", players[2].TotalGameWins)
	}
	if res.Points["p3"] != 4 {
		t.Errorf("recorded points for p3 = %d, want 4", res.Points["p3"])
	}
}

func TestResolveGame_PlayerWithoutEntryScoresZero(t *testing.T) {
	players := testPlayers()
	resolveGame(map[string]int{"p2": 6}, players)

	if players[0].Score != 0 {
		t.Errorf("p1 Score = %d, want 0", players[0].Score)
	}
	if players[1].Score != 6 || players[1].TotalGameWins != 1 {
		t.Errorf("p2 = {score %d, wins %d}, want {6, 1}", players[1].Score, players[1].TotalGameWins)
	}
}

func TestResolveGame_NegativeEntriesClampToZero(t *testing.T) {
	players := testPlayers()
	res := resolveGame(map[string]int{"p1": -3, "p2": 2}, players)

	if players[0].Score != 0 {
		t.Errorf("p1 Score = %d, want 0", players[0].Score)
	}
	if res.Points["p1"] != 0 {
		t.Errorf("recorded points for p1 = %d, want 0", res.Points["p1"])
	}
}

func TestResolveChallenge(t *testing.T) {
	players := testPlayers()
	players[1].Stars = 2

	res := resolveChallenge([]string{"p2", "p3", "p3", "ghost"}, players)

	if players[0].Stars != 0 {
		t.Errorf("p1 Stars = %d, want 0", players[0].Stars)
	}
	if players[1].Stars != 3 {
		t.Errorf("p2 Stars = %d, want 3", players[1].Stars)
	}
	if players[2].Stars != 1 {
		t.Errorf("p3 Stars = %d, want 1 (duplicates count once)", players[2].Stars)
	}
	if len(res.Stars) != 2 {
		t.Errorf("recorded stars = %v, want exactly p2 and p3", res.Stars)
	}
}
