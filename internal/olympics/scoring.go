package olympics

import "sort"

// Outcome is the caller-supplied result for the current event. Points is
// consulted for games (playerID -> non-negative points; players without an
// entry score 0). Stars is consulted for challenges and lists the players
// the judge awarded a star. Breaks ignore both.
type Outcome struct {
	Points map[string]int
	Stars  []string
}

// resolveGame computes the winner set and applies score/win deltas to the
// players slice in place. The winner set is every entered player whose
// points equal the maximum entered value; a winner with 0 points is not
// credited a game win (no valid attempt).
func resolveGame(points map[string]int, players []PlayerState) *Results {
	maxPoints := -1
	var winners []string
	for _, id := range sortedKeys(points) {
		pts := points[id]
		if pts < 0 {
			pts = 0
		}
		if pts > maxPoints {
			maxPoints = pts
			winners = []string{id}
		} else if pts == maxPoints {
			winners = append(winners, id)
		}
	}

	winnerSet := make(map[string]bool, len(winners))
	for _, id := range winners {
		winnerSet[id] = true
	}

	recorded := make(map[string]int, len(points))
	for id, pts := range points {
		if pts < 0 {
			pts = 0
		}
		recorded[id] = pts
	}

	for i := range players {
		p := &players[i]
		pts := recorded[p.ID]
		p.Score += pts
		if winnerSet[p.ID] && pts > 0 {
			p.TotalGameWins++
		}
	}

	return &Results{Points: recorded, Winners: winners}
}

// resolveChallenge grants one star to each listed player. Unknown ids are
// ignored; duplicates count once.
func resolveChallenge(starred []string, players []PlayerState) *Results {
	awarded := make(map[string]bool, len(starred))
	for _, id := range starred {
		awarded[id] = true
	}

	var stars []string
	for i := range players {
		p := &players[i]
		if awarded[p.ID] {
			p.Stars++
			stars = append(stars, p.ID)
		}
	}

	return &Results{Stars: stars}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
