package brackets

import (
	"math"
	"sort"

	"github.com/Dosada05/tournament-engine/models"
)

// DropLossThreshold is the loss count at which a participant stops being
// paired. Dropped participants stay in the standings.
const DropLossThreshold = 3

// DefaultSwissRounds is ceil(log2(n)) + 2.
func DefaultSwissRounds(participantCount int) int {
	if participantCount <= 1 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(participantCount)))) + 2
}

// matchHistory answers "have these two met" over every recorded match,
// regardless of its status.
type matchHistory struct {
	met  map[[2]int]struct{}
	byes map[int]int
}

func newMatchHistory(matches []models.Match) matchHistory {
	h := matchHistory{
		met:  make(map[[2]int]struct{}, len(matches)),
		byes: make(map[int]int),
	}
	for _, m := range matches {
		if m.Player1ID != nil && m.Player2ID != nil {
			h.met[pairKey(*m.Player1ID, *m.Player2ID)] = struct{}{}
			continue
		}
		if id, ok := m.ByePlayer(); ok && m.Status == models.MatchStatusBye {
			h.byes[id]++
		}
	}
	return h
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func (h matchHistory) played(a, b int) bool {
	_, ok := h.met[pairKey(a, b)]
	return ok
}

func isActive(s models.Standing) bool {
	return s.Losses < DropLossThreshold
}

// GenerateSwissPairings proposes the pairings of the given round.
//
// Active participants are bucketed by wins and paired bucket by bucket from
// the top, ordered inside a bucket by the summed wins of their past
// opponents. Two participants who already met are never paired again.
// Whoever is left over in a bucket floats down and is paired first in the
// next bucket. With an odd number of active participants the lowest
// leftover without a previous bye gets a bye pairing. Participants that
// still cannot be paired are left out of the round.
func GenerateSwissPairings(participants []models.Participant, matches []models.Match, round int) []models.Pairing {
	standings := CalculateStandings(participants, matches)
	history := newMatchHistory(matches)

	winsByID := make(map[int]int, len(standings))
	for _, s := range standings {
		winsByID[s.Participant.ID] = s.Wins
	}

	buckets := make(map[int][]models.Standing)
	activeCount := 0
	for _, s := range standings {
		if !isActive(s) {
			continue
		}
		activeCount++
		buckets[s.Wins] = append(buckets[s.Wins], s)
	}

	scores := make([]int, 0, len(buckets))
	for wins := range buckets {
		scores = append(scores, wins)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(scores)))

	pairings := make([]models.Pairing, 0, activeCount/2+1)
	var floaters []models.Standing
	for _, wins := range scores {
		group := buckets[wins]
		sort.SliceStable(group, func(i, j int) bool {
			return opponentWins(group[i], winsByID) > opponentWins(group[j], winsByID)
		})

		candidates := make([]models.Standing, 0, len(floaters)+len(group))
		candidates = append(candidates, floaters...)
		candidates = append(candidates, group...)

		var pairs []models.Pairing
		pairs, floaters = pairGroup(candidates, history, round)
		pairings = append(pairings, pairs...)
	}

	if activeCount%2 == 1 {
		if id, ok := pickBye(floaters, history); ok {
			pairings = append(pairings, models.Pairing{Round: round, Player1ID: id})
		}
	}
	return pairings
}

func opponentWins(s models.Standing, winsByID map[int]int) int {
	total := 0
	for _, opp := range s.Opponents {
		total += winsByID[opp]
	}
	return total
}

// pairGroup pairs candidates in order, each with the next unpaired candidate
// it has not met yet, and returns whoever is left.
func pairGroup(candidates []models.Standing, history matchHistory, round int) ([]models.Pairing, []models.Standing) {
	paired := make([]bool, len(candidates))
	pairs := make([]models.Pairing, 0, len(candidates)/2)
	for i := range candidates {
		if paired[i] {
			continue
		}
		a := candidates[i].Participant.ID
		for j := i + 1; j < len(candidates); j++ {
			if paired[j] {
				continue
			}
			b := candidates[j].Participant.ID
			if history.played(a, b) {
				continue
			}
			paired[i], paired[j] = true, true
			pairs = append(pairs, models.Pairing{Round: round, Player1ID: a, Player2ID: &b})
			break
		}
	}

	var leftover []models.Standing
	for i, c := range candidates {
		if !paired[i] {
			leftover = append(leftover, c)
		}
	}
	return pairs, leftover
}

// pickBye walks leftovers from the lowest ranked up and prefers someone who
// has not had a bye yet.
func pickBye(leftover []models.Standing, history matchHistory) (int, bool) {
	if len(leftover) == 0 {
		return 0, false
	}
	for i := len(leftover) - 1; i >= 0; i-- {
		id := leftover[i].Participant.ID
		if history.byes[id] == 0 {
			return id, true
		}
	}
	return leftover[len(leftover)-1].Participant.ID, true
}

// IsSwissTournamentComplete reports whether no further Swiss round should be
// played. maxRounds <= 0 selects DefaultSwissRounds.
func IsSwissTournamentComplete(participants []models.Participant, matches []models.Match, maxRounds int) bool {
	if len(participants) <= 1 {
		return true
	}
	if maxRounds <= 0 {
		maxRounds = DefaultSwissRounds(len(participants))
	}
	current := CurrentRound(matches)
	if current >= maxRounds {
		return true
	}

	undefeated, active := 0, 0
	for _, s := range CalculateStandings(participants, matches) {
		if s.Losses == 0 {
			undefeated++
		}
		if isActive(s) {
			active++
		}
	}
	if undefeated == 1 && active <= 2 {
		return true
	}

	return countReal(GenerateSwissPairings(participants, matches, current+1)) == 0
}

func countReal(pairings []models.Pairing) int {
	n := 0
	for _, p := range pairings {
		if !p.IsBye() {
			n++
		}
	}
	return n
}

func CalculateSwissPlacements(participants []models.Participant, matches []models.Match) []models.Placement {
	return PlacementsFromStandings(CalculateStandings(participants, matches))
}
