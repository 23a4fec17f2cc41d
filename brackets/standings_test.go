package brackets_test

import (
	"testing"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateStandings(t *testing.T) {
	participants := players(1, 2, 3, 4)
	matches := []models.Match{
		won(1, 1, 2),
		won(1, 3, 4),
		won(2, 1, 3),
	}

	standings := brackets.CalculateStandings(participants, matches)
	require.Len(t, standings, 4)
	assert.Equal(t, []int{1, 3, 2, 4}, standingIDs(standings))

	top := standings[0]
	assert.Equal(t, 2, top.Wins)
	assert.Equal(t, 0, top.Losses)
	assert.Equal(t, 6, top.Points)
	assert.Equal(t, []int{2, 3}, top.Opponents)

	second := standings[1]
	assert.Equal(t, 1, second.Wins)
	assert.Equal(t, 1, second.Losses)
	assert.Equal(t, []int{4, 1}, second.Opponents)
}

func TestCalculateStandingsIgnoresUnusableMatches(t *testing.T) {
	participants := players(1, 2)

	tests := []struct {
		name  string
		match models.Match
	}{
		{"unknown player", won(1, 1, 99)},
		{"scheduled", models.Match{Round: 1, Player1ID: ptr(1), Player2ID: ptr(2), Status: models.MatchStatusScheduled}},
		{"in progress with winner", models.Match{Round: 1, Player1ID: ptr(1), Player2ID: ptr(2), WinnerID: ptr(1), Status: models.MatchStatusInProgress}},
		{"completed without winner", models.Match{Round: 1, Player1ID: ptr(1), Player2ID: ptr(2), Status: models.MatchStatusCompleted}},
		{"bye", byeMatch(1, 1)},
		{"winner not a player", models.Match{Round: 1, Player1ID: ptr(1), Player2ID: ptr(2), WinnerID: ptr(7), Status: models.MatchStatusCompleted}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			standings := brackets.CalculateStandings(participants, []models.Match{tt.match})
			require.Len(t, standings, 2)
			for _, s := range standings {
				assert.Zero(t, s.Wins)
				assert.Zero(t, s.Losses)
				assert.Zero(t, s.Points)
				assert.Empty(t, s.Opponents)
			}
		})
	}
}

func TestCalculateStandingsTieBreaks(t *testing.T) {
	// 2 has fewer losses than 3 at equal points and wins.
	participants := players(3, 2, 1, 4)
	matches := []models.Match{
		won(1, 3, 1),
		won(1, 2, 4),
		won(2, 1, 3),
	}

	standings := brackets.CalculateStandings(participants, matches)
	assert.Equal(t, []int{2, 3, 1, 4}, standingIDs(standings))
}

func TestCalculateStandingsEmpty(t *testing.T) {
	assert.Empty(t, brackets.CalculateStandings(nil, nil))
	assert.Empty(t, brackets.CalculateStandings(nil, []models.Match{won(1, 1, 2)}))
}

func TestCalculateStandingsDeterministic(t *testing.T) {
	participants := players(1, 2, 3, 4, 5, 6)
	matches := []models.Match{won(1, 1, 2), won(1, 3, 4), won(1, 5, 6), won(2, 2, 4)}

	first := brackets.CalculateStandings(participants, matches)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, brackets.CalculateStandings(participants, matches))
	}
}

func TestCalculateStandingsAccounting(t *testing.T) {
	participants := players(1, 2, 3, 4, 5, 6, 7, 8)
	var matches []models.Match
	for round := 1; round <= 4; round++ {
		matches = append(matches, played(brackets.GenerateSwissPairings(participants, matches, round))...)
	}

	completed := make(map[int]int)
	for _, m := range matches {
		if m.Status == models.MatchStatusCompleted {
			completed[*m.Player1ID]++
			completed[*m.Player2ID]++
		}
	}

	standings := brackets.CalculateStandings(participants, matches)
	require.Len(t, standings, len(participants))
	seen := make(map[int]bool)
	for _, s := range standings {
		assert.False(t, seen[s.Participant.ID], "participant %d listed twice", s.Participant.ID)
		seen[s.Participant.ID] = true
		assert.Equal(t, 3*s.Wins, s.Points)
		assert.Zero(t, s.Draws)
		assert.Len(t, s.Opponents, completed[s.Participant.ID])
	}
}

func TestCurrentRound(t *testing.T) {
	assert.Equal(t, 0, brackets.CurrentRound(nil))
	assert.Equal(t, 3, brackets.CurrentRound([]models.Match{won(1, 1, 2), won(3, 1, 2), byeMatch(2, 1)}))
}
