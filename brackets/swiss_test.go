package brackets_test

import (
	"testing"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSwissPairingsFirstRound(t *testing.T) {
	pairings := brackets.GenerateSwissPairings(players(1, 2, 3, 4), nil, 1)
	require.Len(t, pairings, 2)

	seen := make(map[int]int)
	for _, p := range pairings {
		require.False(t, p.IsBye())
		assert.Equal(t, 1, p.Round)
		seen[p.Player1ID]++
		seen[*p.Player2ID]++
	}
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 1, 4: 1}, seen)
}

func TestGenerateSwissPairingsOddFieldGetsBye(t *testing.T) {
	pairings := brackets.GenerateSwissPairings(players(1, 2, 3, 4, 5), nil, 1)
	require.Len(t, pairings, 3)

	assert.Equal(t, models.Pairing{Round: 1, Player1ID: 1, Player2ID: ptr(2)}, pairings[0])
	assert.Equal(t, models.Pairing{Round: 1, Player1ID: 3, Player2ID: ptr(4)}, pairings[1])
	assert.True(t, pairings[2].IsBye())
	assert.Equal(t, 5, pairings[2].Player1ID)
}

func TestGenerateSwissPairingsByeGoesToLeftover(t *testing.T) {
	participants := players(1, 2, 3)
	matches := []models.Match{won(1, 1, 2), byeMatch(1, 3)}

	// 1 cannot meet 2 again, so 1 plays 3 and 2 takes the bye.
	pairings := brackets.GenerateSwissPairings(participants, matches, 2)
	require.Len(t, pairings, 2)
	assert.Equal(t, models.Pairing{Round: 2, Player1ID: 1, Player2ID: ptr(3)}, pairings[0])
	assert.Equal(t, models.Pairing{Round: 2, Player1ID: 2}, pairings[1])
}

func TestGenerateSwissPairingsByePrefersPlayerWithoutBye(t *testing.T) {
	participants := players(1, 2, 3)
	matches := []models.Match{
		won(1, 1, 2), byeMatch(1, 3),
		won(2, 3, 1), byeMatch(2, 2),
		won(3, 2, 3),
	}

	pairings := brackets.GenerateSwissPairings(participants, matches, 4)
	assert.Equal(t, []models.Pairing{{Round: 4, Player1ID: 1}}, pairings)
}

func TestGenerateSwissPairingsPairsWithinScoreGroup(t *testing.T) {
	matches := []models.Match{won(1, 1, 2), won(1, 3, 4)}

	pairings := brackets.GenerateSwissPairings(players(1, 2, 3, 4), matches, 2)
	assert.Equal(t, []models.Pairing{
		{Round: 2, Player1ID: 1, Player2ID: ptr(3)},
		{Round: 2, Player1ID: 2, Player2ID: ptr(4)},
	}, pairings)
}

func TestGenerateSwissPairingsFloatsLeftoverDown(t *testing.T) {
	matches := []models.Match{won(1, 1, 2), won(1, 3, 4), won(1, 5, 6)}

	pairings := brackets.GenerateSwissPairings(players(1, 2, 3, 4, 5, 6), matches, 2)
	assert.Equal(t, []models.Pairing{
		{Round: 2, Player1ID: 1, Player2ID: ptr(3)},
		{Round: 2, Player1ID: 5, Player2ID: ptr(2)},
		{Round: 2, Player1ID: 4, Player2ID: ptr(6)},
	}, pairings)
}

func TestGenerateSwissPairingsAvoidsRematchInGroup(t *testing.T) {
	matches := []models.Match{
		won(1, 1, 2), won(1, 3, 4),
		won(2, 1, 3), won(2, 2, 4),
	}

	pairings := brackets.GenerateSwissPairings(players(1, 2, 3, 4), matches, 3)
	assert.Equal(t, []models.Pairing{
		{Round: 3, Player1ID: 2, Player2ID: ptr(3)},
		{Round: 3, Player1ID: 1, Player2ID: ptr(4)},
	}, pairings)
}

func TestGenerateSwissPairingsStrengthOfSchedule(t *testing.T) {
	// 3, 4, 5 and 6 share one win each. 6 beat 5, who won later, so 6 is
	// ordered first in the group despite coming last in the input.
	matches := []models.Match{
		won(1, 1, 2), won(1, 6, 5), won(1, 4, 3),
		won(2, 1, 6), won(2, 3, 2), won(2, 5, 4),
	}

	pairings := brackets.GenerateSwissPairings(players(1, 2, 3, 4, 5, 6), matches, 3)
	assert.Equal(t, []models.Pairing{
		{Round: 3, Player1ID: 1, Player2ID: ptr(4)},
		{Round: 3, Player1ID: 6, Player2ID: ptr(3)},
		{Round: 3, Player1ID: 5, Player2ID: ptr(2)},
	}, pairings)
}

func TestGenerateSwissPairingsNoRematches(t *testing.T) {
	participants := players(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	var matches []models.Match
	for round := 1; round <= 5; round++ {
		pairings := brackets.GenerateSwissPairings(participants, matches, round)
		require.NotEmpty(t, pairings, "round %d", round)
		matches = append(matches, played(pairings)...)
	}

	met := make(map[[2]int]int)
	for _, m := range matches {
		if m.Player2ID == nil {
			continue
		}
		met[pairKey(*m.Player1ID, *m.Player2ID)]++
	}
	for pair, n := range met {
		assert.Equal(t, 1, n, "pair %v met %d times", pair, n)
	}
}

func TestGenerateSwissPairingsNobodyPairedTwice(t *testing.T) {
	participants := players(1, 2, 3, 4, 5, 6, 7)
	matches := []models.Match{won(1, 1, 2), won(1, 3, 4), won(1, 5, 6), byeMatch(1, 7)}

	seen := make(map[int]int)
	for _, p := range brackets.GenerateSwissPairings(participants, matches, 2) {
		seen[p.Player1ID]++
		if p.Player2ID != nil {
			seen[*p.Player2ID]++
		}
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "participant %d", id)
	}
}

func TestGenerateSwissPairingsDropRule(t *testing.T) {
	participants := players(1, 2, 3, 4)
	matches := []models.Match{
		won(1, 1, 4), won(1, 2, 3),
		won(2, 2, 4), won(2, 1, 3),
		won(3, 3, 4), won(3, 1, 2),
	}

	pairings := brackets.GenerateSwissPairings(participants, matches, 4)
	for _, p := range pairings {
		assert.NotEqual(t, 4, p.Player1ID)
		if p.Player2ID != nil {
			assert.NotEqual(t, 4, *p.Player2ID)
		}
	}
	// Everyone active has met everyone else, only the bye is left.
	assert.Equal(t, []models.Pairing{{Round: 4, Player1ID: 3}}, pairings)

	standings := brackets.CalculateStandings(participants, matches)
	last := standings[len(standings)-1]
	assert.Equal(t, 4, last.Participant.ID)
	assert.Equal(t, 3, last.Losses)
}

func TestGenerateSwissPairingsDeterministic(t *testing.T) {
	participants := players(1, 2, 3, 4, 5, 6, 7, 8)
	matches := []models.Match{won(1, 1, 2), won(1, 3, 4), won(1, 6, 5), won(1, 8, 7)}

	first := brackets.GenerateSwissPairings(participants, matches, 2)
	assert.Equal(t, first, brackets.GenerateSwissPairings(participants, matches, 2))
}

func TestGenerateSwissPairingsEmpty(t *testing.T) {
	assert.Empty(t, brackets.GenerateSwissPairings(nil, nil, 1))
	assert.Equal(t, []models.Pairing{{Round: 1, Player1ID: 1}}, brackets.GenerateSwissPairings(players(1), nil, 1))
}

func TestDefaultSwissRounds(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{0, 0}, {1, 0}, {2, 3}, {3, 4}, {4, 4}, {5, 5}, {8, 5}, {9, 6}, {16, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, brackets.DefaultSwissRounds(tt.count), "count %d", tt.count)
	}
}

func TestIsSwissTournamentComplete(t *testing.T) {
	tests := []struct {
		name         string
		participants []models.Participant
		matches      []models.Match
		maxRounds    int
		want         bool
	}{
		{
			name: "no participants",
			want: true,
		},
		{
			name:         "single participant",
			participants: players(1),
			want:         true,
		},
		{
			name:         "fresh event",
			participants: players(1, 2, 3, 4),
			want:         false,
		},
		{
			name:         "max rounds reached",
			participants: players(1, 2, 3, 4),
			matches:      []models.Match{won(1, 1, 2), won(1, 3, 4)},
			maxRounds:    1,
			want:         true,
		},
		{
			name:         "default max rounds reached",
			participants: players(1, 2, 3, 4, 5, 6, 7, 8),
			matches:      []models.Match{won(5, 1, 2)},
			want:         true,
		},
		{
			name:         "sole undefeated leader",
			participants: players(1, 2),
			matches:      []models.Match{won(1, 1, 2)},
			maxRounds:    10,
			want:         true,
		},
		{
			name:         "two undefeated left",
			participants: players(1, 2, 3, 4),
			matches:      []models.Match{won(1, 1, 2), won(1, 3, 4)},
			maxRounds:    10,
			want:         false,
		},
		{
			name:         "no pairing possible",
			participants: players(1, 2, 3, 4),
			matches: []models.Match{
				won(1, 1, 4), won(1, 2, 3),
				won(2, 2, 4), won(2, 1, 3),
				won(3, 3, 4), won(3, 1, 2),
			},
			maxRounds: 10,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := brackets.IsSwissTournamentComplete(tt.participants, tt.matches, tt.maxRounds)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateSwissPlacements(t *testing.T) {
	matches := []models.Match{won(1, 2, 1), won(1, 4, 3), won(2, 4, 2)}

	placements := brackets.CalculateSwissPlacements(players(1, 2, 3, 4), matches)
	require.Len(t, placements, 4)
	assert.Equal(t, 4, placements[0].Participant.ID)
	assert.Equal(t, 1, placements[0].Rank)
	assert.Equal(t, 6, placements[0].Points)
	assert.Equal(t, 2, placements[1].Participant.ID)
	for i, p := range placements {
		assert.Equal(t, i+1, p.Rank)
	}
}
