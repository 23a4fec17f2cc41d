package brackets

import "github.com/Dosada05/tournament-engine/models"

// GenerateRoundRobinPairings builds the full all-play-all schedule with the
// circle method. The first slot stays fixed while the others rotate one
// position per round. An odd field gets an empty slot, and whoever meets it
// receives a bye for that round.
func GenerateRoundRobinPairings(participants []models.Participant) []models.Pairing {
	if len(participants) < 2 {
		return []models.Pairing{}
	}

	slots := make([]*int, 0, len(participants)+1)
	for _, p := range participants {
		id := p.ID
		slots = append(slots, &id)
	}
	if len(slots)%2 == 1 {
		slots = append(slots, nil)
	}

	size := len(slots)
	half := size / 2
	rounds := size - 1

	pairings := make([]models.Pairing, 0, rounds*half)
	for r := 1; r <= rounds; r++ {
		for i := 0; i < half; i++ {
			top, bottom := slots[i], slots[size-1-i]
			switch {
			case top == nil && bottom == nil:
				continue
			case bottom == nil:
				pairings = append(pairings, models.Pairing{Round: r, Player1ID: *top})
			case top == nil:
				pairings = append(pairings, models.Pairing{Round: r, Player1ID: *bottom})
			default:
				opponent := *bottom
				pairings = append(pairings, models.Pairing{Round: r, Player1ID: *top, Player2ID: &opponent})
			}
		}

		last := slots[size-1]
		copy(slots[2:], slots[1:size-1])
		slots[1] = last
	}
	return pairings
}

func CalculateRoundRobinStandings(participants []models.Participant, matches []models.Match) []models.Standing {
	return CalculateStandings(participants, matches)
}

// IsRoundRobinTournamentComplete reports whether every real pairing of the
// schedule has a finished match between the same two participants.
func IsRoundRobinTournamentComplete(participants []models.Participant, matches []models.Match) bool {
	if len(participants) < 2 {
		return true
	}
	for _, p := range GenerateRoundRobinPairings(participants) {
		if p.IsBye() {
			continue
		}
		if !hasFinishedMatch(matches, p.Player1ID, *p.Player2ID) {
			return false
		}
	}
	return true
}

func hasFinishedMatch(matches []models.Match, a, b int) bool {
	for _, m := range matches {
		if m.Involves(a, b) && m.Status.Finished() {
			return true
		}
	}
	return false
}

func CalculateRoundRobinPlacements(participants []models.Participant, matches []models.Match) []models.Placement {
	return PlacementsFromStandings(CalculateRoundRobinStandings(participants, matches))
}
