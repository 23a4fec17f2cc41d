package brackets

import (
	"sort"

	"github.com/Dosada05/tournament-engine/models"
)

const (
	PointsPerWin  = 3
	PointsPerLoss = 0
	PointsPerDraw = 0
)

// CalculateStandings folds completed matches into one Standing per
// participant, ranked by points, then wins, then fewest losses. Ties keep
// participant input order. Matches without a winner or referencing unknown
// participants are ignored.
func CalculateStandings(participants []models.Participant, matches []models.Match) []models.Standing {
	standings := make([]models.Standing, len(participants))
	index := make(map[int]int, len(participants))
	for i, p := range participants {
		standings[i] = models.Standing{Participant: p, Opponents: []int{}}
		index[p.ID] = i
	}

	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted || m.WinnerID == nil {
			continue
		}
		if m.Player1ID == nil || m.Player2ID == nil {
			continue
		}
		i1, ok1 := index[*m.Player1ID]
		i2, ok2 := index[*m.Player2ID]
		if !ok1 || !ok2 {
			continue
		}

		var winner, loser int
		switch *m.WinnerID {
		case *m.Player1ID:
			winner, loser = i1, i2
		case *m.Player2ID:
			winner, loser = i2, i1
		default:
			continue
		}

		standings[i1].Opponents = append(standings[i1].Opponents, *m.Player2ID)
		standings[i2].Opponents = append(standings[i2].Opponents, *m.Player1ID)

		standings[winner].Wins++
		standings[winner].Points += PointsPerWin
		standings[loser].Losses++
		standings[loser].Points += PointsPerLoss
	}

	sortStandings(standings)
	return standings
}

func sortStandings(standings []models.Standing) {
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.Losses < b.Losses
	})
}

// CurrentRound is the highest round number present in matches, 0 if none.
func CurrentRound(matches []models.Match) int {
	current := 0
	for _, m := range matches {
		if m.Round > current {
			current = m.Round
		}
	}
	return current
}
