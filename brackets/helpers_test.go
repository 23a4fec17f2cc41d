package brackets_test

import (
	"github.com/Dosada05/tournament-engine/models"
)

func ptr(v int) *int { return &v }

func players(ids ...int) []models.Participant {
	out := make([]models.Participant, len(ids))
	for i, id := range ids {
		out[i] = models.Participant{ID: id, Name: string(rune('A' + i))}
	}
	return out
}

func won(round, winner, loser int) models.Match {
	return models.Match{
		Round:     round,
		Player1ID: ptr(winner),
		Player2ID: ptr(loser),
		WinnerID:  ptr(winner),
		Status:    models.MatchStatusCompleted,
	}
}

func byeMatch(round, player int) models.Match {
	return models.Match{Round: round, Player1ID: ptr(player), Status: models.MatchStatusBye}
}

// played turns pairings into completed matches won by Player1.
func played(pairings []models.Pairing) []models.Match {
	out := make([]models.Match, 0, len(pairings))
	for _, p := range pairings {
		if p.IsBye() {
			out = append(out, byeMatch(p.Round, p.Player1ID))
			continue
		}
		out = append(out, won(p.Round, p.Player1ID, *p.Player2ID))
	}
	return out
}

func standingIDs(standings []models.Standing) []int {
	ids := make([]int, len(standings))
	for i, s := range standings {
		ids[i] = s.Participant.ID
	}
	return ids
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}
