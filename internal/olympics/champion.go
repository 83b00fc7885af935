package olympics

import "sort"

// Champions resolves the two session titles over the final player list.
//
// The points champion is the player with the highest score; ties are broken
// by most game wins, then by player-list order. The stars champion is the
// player with the most stars, but only if they earned at least one; with no
// stars at all there is no stars champion. Both ids may name the same
// player (double champion); either may be empty.
func Champions(players []PlayerState) (pointsChampID, starsChampID string) {
	maxScore := -1
	maxWins := -1
	maxStars := -1

	for _, p := range players {
		if p.Score > maxScore {
			maxScore = p.Score
			maxWins = p.TotalGameWins
			pointsChampID = p.ID
		} else if p.Score == maxScore && p.TotalGameWins > maxWins {
			maxWins = p.TotalGameWins
			pointsChampID = p.ID
		}

		if p.Stars > maxStars && p.Stars > 0 {
			maxStars = p.Stars
			starsChampID = p.ID
		}
	}
	return pointsChampID, starsChampID
}

// Standings returns the players ordered for the live leaderboard: score
// descending, then game wins descending, preserving list order for full ties.
func Standings(players []PlayerState) []PlayerState {
	out := append([]PlayerState(nil), players...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].TotalGameWins > out[j].TotalGameWins
	})
	return out
}
