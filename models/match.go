package models

type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusBye        MatchStatus = "bye"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusScheduled, MatchStatusInProgress, MatchStatusCompleted, MatchStatusBye:
		return true
	}
	return false
}

// Finished reports whether the match needs no further result.
func (s MatchStatus) Finished() bool {
	return s == MatchStatusCompleted || s == MatchStatusBye
}

// Match is a persisted game between two participants, or a bye when only one
// slot is filled.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Round        int         `json:"round" db:"round"`
	Player1ID    *int        `json:"player1_id,omitempty" db:"player1_id"`
	Player2ID    *int        `json:"player2_id,omitempty" db:"player2_id"`
	WinnerID     *int        `json:"winner_id,omitempty" db:"winner_id"`
	Status       MatchStatus `json:"status" db:"status"`
}

func (m Match) HasPlayer(id int) bool {
	return (m.Player1ID != nil && *m.Player1ID == id) || (m.Player2ID != nil && *m.Player2ID == id)
}

// Involves reports whether a and b are the two players of m, in either order.
func (m Match) Involves(a, b int) bool {
	if m.Player1ID == nil || m.Player2ID == nil {
		return false
	}
	p1, p2 := *m.Player1ID, *m.Player2ID
	return (p1 == a && p2 == b) || (p1 == b && p2 == a)
}

// ByePlayer returns the single present player of a one-sided match.
func (m Match) ByePlayer() (int, bool) {
	switch {
	case m.Player1ID != nil && m.Player2ID == nil:
		return *m.Player1ID, true
	case m.Player2ID != nil && m.Player1ID == nil:
		return *m.Player2ID, true
	}
	return 0, false
}

// Pairing is a proposed match that has not been persisted yet.
type Pairing struct {
	Round     int  `json:"round"`
	Player1ID int  `json:"player1_id"`
	Player2ID *int `json:"player2_id,omitempty"`
}

func (p Pairing) IsBye() bool {
	return p.Player2ID == nil
}

// ToMatch converts the pairing into a match row for the given tournament.
func (p Pairing) ToMatch(tournamentID int) *Match {
	p1 := p.Player1ID
	m := &Match{
		TournamentID: tournamentID,
		Round:        p.Round,
		Player1ID:    &p1,
		Status:       MatchStatusScheduled,
	}
	if p.IsBye() {
		m.Status = MatchStatusBye
		return m
	}
	p2 := *p.Player2ID
	m.Player2ID = &p2
	return m
}
