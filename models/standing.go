package models

// Standing is a participant's record derived from the match history.
type Standing struct {
	Participant Participant `json:"participant"`
	Wins        int         `json:"wins"`
	Losses      int         `json:"losses"`
	Draws       int         `json:"draws"`
	Points      int         `json:"points"`
	// Opponents holds one participant id per counted match, in match order.
	Opponents []int `json:"opponents"`
}

// Placement is a final 1-based rank.
type Placement struct {
	Participant Participant `json:"participant"`
	Rank        int         `json:"rank" db:"rank"`
	Wins        int         `json:"wins" db:"wins"`
	Losses      int         `json:"losses" db:"losses"`
	Points      int         `json:"points" db:"points"`
}
