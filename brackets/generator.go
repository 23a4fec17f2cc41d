package brackets

import (
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

var ErrUnsupportedFormat = errors.New("unsupported tournament format")

// Format bundles the engine operations of one tournament system. All methods
// are pure functions of their arguments.
type Format interface {
	Kind() models.FormatKind
	GetName() string

	// Opening returns the pairings to persist when the tournament starts.
	Opening(participants []models.Participant) []models.Pairing
	// NextRound returns the pairings of the round after the current one.
	NextRound(participants []models.Participant, matches []models.Match) []models.Pairing
	IsComplete(participants []models.Participant, matches []models.Match) bool
	Standings(participants []models.Participant, matches []models.Match) []models.Standing
	Placements(participants []models.Participant, matches []models.Match) []models.Placement
}

// ForKind returns the Format for kind. maxRounds only applies to Swiss, and
// <= 0 means the default round count.
func ForKind(kind models.FormatKind, maxRounds int) (Format, error) {
	switch kind {
	case models.FormatSwiss:
		return NewSwiss(maxRounds), nil
	case models.FormatRoundRobin:
		return NewRoundRobin(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, kind)
	}
}

type Swiss struct {
	MaxRounds int
}

func NewSwiss(maxRounds int) Format {
	return &Swiss{MaxRounds: maxRounds}
}

func (s *Swiss) Kind() models.FormatKind { return models.FormatSwiss }
func (s *Swiss) GetName() string         { return "Swiss" }

func (s *Swiss) Opening(participants []models.Participant) []models.Pairing {
	return GenerateSwissPairings(participants, nil, 1)
}

func (s *Swiss) NextRound(participants []models.Participant, matches []models.Match) []models.Pairing {
	return GenerateSwissPairings(participants, matches, CurrentRound(matches)+1)
}

func (s *Swiss) IsComplete(participants []models.Participant, matches []models.Match) bool {
	return IsSwissTournamentComplete(participants, matches, s.MaxRounds)
}

func (s *Swiss) Standings(participants []models.Participant, matches []models.Match) []models.Standing {
	return CalculateStandings(participants, matches)
}

func (s *Swiss) Placements(participants []models.Participant, matches []models.Match) []models.Placement {
	return CalculateSwissPlacements(participants, matches)
}

type RoundRobin struct{}

func NewRoundRobin() Format {
	return &RoundRobin{}
}

func (g *RoundRobin) Kind() models.FormatKind { return models.FormatRoundRobin }
func (g *RoundRobin) GetName() string         { return "RoundRobin" }

// Opening returns the whole schedule, every round at once.
func (g *RoundRobin) Opening(participants []models.Participant) []models.Pairing {
	return GenerateRoundRobinPairings(participants)
}

func (g *RoundRobin) NextRound(participants []models.Participant, matches []models.Match) []models.Pairing {
	next := CurrentRound(matches) + 1
	round := make([]models.Pairing, 0)
	for _, p := range GenerateRoundRobinPairings(participants) {
		if p.Round == next {
			round = append(round, p)
		}
	}
	return round
}

func (g *RoundRobin) IsComplete(participants []models.Participant, matches []models.Match) bool {
	return IsRoundRobinTournamentComplete(participants, matches)
}

func (g *RoundRobin) Standings(participants []models.Participant, matches []models.Match) []models.Standing {
	return CalculateRoundRobinStandings(participants, matches)
}

func (g *RoundRobin) Placements(participants []models.Participant, matches []models.Match) []models.Placement {
	return CalculateRoundRobinPlacements(participants, matches)
}
