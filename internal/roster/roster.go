package roster

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bryanseely/house-olympics/internal/store"
)

// Collection is the store collection holding roster player documents.
const Collection = "players"

// Player is the persistent roster record. The six lifetime counters are
// owned by the session-completion aggregation; roster management only ever
// touches Name.
type Player struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	LifetimePointsChamps  int    `json:"lifetimePointsChamps"`
	LifetimeStarsChamps   int    `json:"lifetimeStarsChamps"`
	LifetimeGameWins      int    `json:"lifetimeGameWins"`
	LifetimeChallengeWins int    `json:"lifetimeChallengeWins"`
	LifetimeTotalPoints   int    `json:"lifetimeTotalPoints"`
	LifetimeTotalStars    int    `json:"lifetimeTotalStars"`
}

// Decode unmarshals a player document, stamping the document id onto the
// record.
func Decode(doc store.Document) (Player, error) {
	var p Player
	if err := json.Unmarshal(doc.Data, &p); err != nil {
		return Player{}, fmt.Errorf("parsing player %s: %w", doc.ID, err)
	}
	p.ID = doc.ID
	return p, nil
}

// Encode marshals a player record for storage.
func Encode(p Player) (json.RawMessage, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling player %s: %w", p.ID, err)
	}
	return data, nil
}

// List returns every roster player.
func List(st *store.Store) ([]Player, error) {
	docs := st.List(Collection)
	players := make([]Player, 0, len(docs))
	for _, doc := range docs {
		p, err := Decode(doc)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, nil
}

// HallOfFame orders players for the all-time leaderboard: most points-champ
// titles first, lifetime total points breaking ties.
func HallOfFame(players []Player) []Player {
	out := append([]Player(nil), players...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LifetimePointsChamps != out[j].LifetimePointsChamps {
			return out[i].LifetimePointsChamps > out[j].LifetimePointsChamps
		}
		return out[i].LifetimeTotalPoints > out[j].LifetimeTotalPoints
	})
	return out
}
