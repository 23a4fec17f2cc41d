package brackets

import "github.com/Dosada05/tournament-engine/models"

// PlacementsFromStandings assigns rank index+1 to already ranked standings.
func PlacementsFromStandings(standings []models.Standing) []models.Placement {
	placements := make([]models.Placement, len(standings))
	for i, s := range standings {
		placements[i] = models.Placement{
			Participant: s.Participant,
			Rank:        i + 1,
			Wins:        s.Wins,
			Losses:      s.Losses,
			Points:      s.Points,
		}
	}
	return placements
}
