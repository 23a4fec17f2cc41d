package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
)

// handleRepositoryError maps repository sentinels onto service ones.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrMatchConflict):
		return ErrRoundConflict
	case errors.Is(err, brackets.ErrUnsupportedFormat):
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return err
}

// validateMatches rejects stored rows the engine must not see.
func validateMatches(matches []models.Match) error {
	for _, m := range matches {
		if !m.Status.Valid() {
			return fmt.Errorf("%w: match %d has unknown status %q", ErrInvalidMatchData, m.ID, m.Status)
		}
		if m.Round < 1 {
			return fmt.Errorf("%w: match %d has round %d", ErrInvalidMatchData, m.ID, m.Round)
		}
		if m.Player1ID == nil && m.Player2ID == nil {
			return fmt.Errorf("%w: match %d has no players", ErrInvalidMatchData, m.ID)
		}
		if m.WinnerID != nil && !m.HasPlayer(*m.WinnerID) {
			return fmt.Errorf("%w: winner %d of match %d is not one of its players", ErrInvalidMatchData, *m.WinnerID, m.ID)
		}
		if m.Status == models.MatchStatusBye {
			if _, ok := m.ByePlayer(); !ok {
				return fmt.Errorf("%w: bye match %d must have exactly one player", ErrInvalidMatchData, m.ID)
			}
		}
	}
	return nil
}

func allFinished(matches []models.Match) bool {
	for _, m := range matches {
		if !m.Status.Finished() {
			return false
		}
	}
	return true
}

func pairingsToMatches(tournamentID int, pairings []models.Pairing) []*models.Match {
	matches := make([]*models.Match, len(pairings))
	for i, p := range pairings {
		matches[i] = p.ToMatch(tournamentID)
	}
	return matches
}

func derefMatches(matches []*models.Match) []models.Match {
	result := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if m != nil {
			result = append(result, *m)
		}
	}
	return result
}
