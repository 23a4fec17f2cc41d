package models

import "time"

// TournamentStatus mirrors the tournament_status enum in the database.
type TournamentStatus string

const (
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCanceled     TournamentStatus = "canceled"
)

var allowedStatusTransitions = map[TournamentStatus][]TournamentStatus{
	StatusRegistration: {StatusActive, StatusCanceled},
	StatusActive:       {StatusCompleted, StatusCanceled},
	StatusCompleted:    {},
	StatusCanceled:     {},
}

func (s TournamentStatus) CanTransitionTo(next TournamentStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range allowedStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Tournament struct {
	ID          int              `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	OrganizerID int              `json:"organizer_id" db:"organizer_id"`
	Format      FormatKind       `json:"format" db:"format"`
	MaxRounds   *int             `json:"max_rounds,omitempty" db:"max_rounds"`
	Status      TournamentStatus `json:"status" db:"status"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`

	Participants []Participant `json:"participants,omitempty" db:"-"`
	Matches      []Match       `json:"matches,omitempty" db:"-"`
}

// MaxRoundsOrZero returns the configured Swiss round cap, 0 meaning default.
func (t *Tournament) MaxRoundsOrZero() int {
	if t.MaxRounds == nil {
		return 0
	}
	return *t.MaxRounds
}
