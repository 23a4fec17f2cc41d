package models

// Participant is an entrant of a single tournament. It is supplied fresh on
// every engine call and never mutated by it.
type Participant struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
