package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/hub"
	"github.com/Dosada05/tournament-engine/metrics"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/Dosada05/tournament-engine/storage"
	"golang.org/x/sync/errgroup"
)

// Broadcaster pushes live tournament events to subscribers.
type Broadcaster interface {
	Publish(tournamentID int, eventType string, payload interface{})
}

// ResultsArchiver stores the final results of a completed tournament.
type ResultsArchiver interface {
	Save(ctx context.Context, results *storage.TournamentResults) (*storage.UploadResult, error)
}

// RoundResult describes what a start or next-round request changed.
type RoundResult struct {
	TournamentID int                `json:"tournament_id"`
	Round        int                `json:"round,omitempty"`
	Matches      []*models.Match    `json:"matches"`
	Completed    bool               `json:"completed"`
	Placements   []models.Placement `json:"placements,omitempty"`
}

type CompletionPayload struct {
	TournamentID int                `json:"tournament_id"`
	Placements   []models.Placement `json:"placements"`
	ArchiveURL   string             `json:"archive_url,omitempty"`
}

type TournamentService interface {
	GetStandings(ctx context.Context, tournamentID int) ([]models.Standing, error)
	GetPlacements(ctx context.Context, tournamentID int) ([]models.Placement, error)
	StartTournament(ctx context.Context, tournamentID, userID int) (*RoundResult, error)
	GenerateNextRound(ctx context.Context, tournamentID, userID int) (*RoundResult, error)
	SubmitResult(ctx context.Context, matchID, winnerID, userID int) (*models.Match, error)
}

type tournamentService struct {
	tx              repositories.Transactor
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	placementRepo   repositories.PlacementRepository
	broadcaster     Broadcaster
	archive         ResultsArchiver
	metrics         metrics.Metrics
	logger          *slog.Logger
	locks           *keyedMutex
}

// NewTournamentService wires the service. archive may be nil, in which case
// results are not archived.
func NewTournamentService(
	tx repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	placementRepo repositories.PlacementRepository,
	broadcaster Broadcaster,
	archive ResultsArchiver,
	m metrics.Metrics,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tx:              tx,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		placementRepo:   placementRepo,
		broadcaster:     broadcaster,
		archive:         archive,
		metrics:         m,
		logger:          logger,
		locks:           newKeyedMutex(),
	}
}

// loadTournament fetches the tournament with its participants and matches
// concurrently. It is only used outside transactions.
func (s *tournamentService) loadTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	var (
		tournament   *models.Tournament
		participants []models.Participant
		matches      []models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.tournamentRepo.GetByID(gCtx, nil, tournamentID)
		if err != nil {
			return handleRepositoryError(err)
		}
		tournament = t
		return nil
	})
	g.Go(func() error {
		p, err := s.participantRepo.ListByTournament(gCtx, nil, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load participants: %w", err)
		}
		participants = p
		return nil
	})
	g.Go(func() error {
		m, err := s.matchRepo.ListByTournament(gCtx, nil, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load matches: %w", err)
		}
		matches = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := validateMatches(matches); err != nil {
		return nil, err
	}
	tournament.Participants = participants
	tournament.Matches = matches
	return tournament, nil
}

// lockTournament loads the tournament inside exec's transaction under a row
// lock and checks that userID organizes it.
func (s *tournamentService) lockTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID, userID int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.LockForUpdate(ctx, exec, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if t.OrganizerID != userID {
		return nil, ErrForbiddenOperation
	}
	return t, nil
}

func (s *tournamentService) loadState(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament) error {
	participants, err := s.participantRepo.ListByTournament(ctx, exec, t.ID)
	if err != nil {
		return fmt.Errorf("failed to load participants: %w", err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, exec, t.ID)
	if err != nil {
		return fmt.Errorf("failed to load matches: %w", err)
	}
	if err := validateMatches(matches); err != nil {
		return err
	}
	t.Participants = participants
	t.Matches = matches
	return nil
}

func formatFor(t *models.Tournament) (brackets.Format, error) {
	format, err := brackets.ForKind(t.Format, t.MaxRoundsOrZero())
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return format, nil
}

func (s *tournamentService) GetStandings(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	t, err := s.loadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	format, err := formatFor(t)
	if err != nil {
		return nil, err
	}
	return format.Standings(t.Participants, t.Matches), nil
}

// GetPlacements returns the stored placements of a completed tournament and
// the provisional ones otherwise.
func (s *tournamentService) GetPlacements(ctx context.Context, tournamentID int) ([]models.Placement, error) {
	t, err := s.loadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Status == models.StatusCompleted {
		placements, err := s.placementRepo.ListByTournament(ctx, nil, tournamentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load placements: %w", err)
		}
		return placements, nil
	}
	format, err := formatFor(t)
	if err != nil {
		return nil, err
	}
	return format.Placements(t.Participants, t.Matches), nil
}

func (s *tournamentService) StartTournament(ctx context.Context, tournamentID, userID int) (*RoundResult, error) {
	unlock := s.locks.Lock(tournamentID)
	defer unlock()

	var (
		tournament *models.Tournament
		result     *RoundResult
	)
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		t, err := s.lockTournament(ctx, exec, tournamentID, userID)
		if err != nil {
			return err
		}
		if t.Status != models.StatusRegistration || !t.Status.CanTransitionTo(models.StatusActive) {
			return fmt.Errorf("%w: cannot start a tournament in status %q", ErrTournamentInvalidStatusTransition, t.Status)
		}
		format, err := formatFor(t)
		if err != nil {
			return err
		}

		participants, err := s.participantRepo.ListByTournament(ctx, exec, t.ID)
		if err != nil {
			return fmt.Errorf("failed to load participants: %w", err)
		}
		if len(participants) < 2 {
			return ErrNotEnoughParticipants
		}

		started := time.Now()
		pairings := format.Opening(participants)
		s.metrics.ObservePairingDuration(time.Since(started).Seconds())

		matches := pairingsToMatches(t.ID, pairings)
		if err := s.matchRepo.CreateBatch(ctx, exec, matches); err != nil {
			return handleRepositoryError(err)
		}
		if err := s.tournamentRepo.UpdateStatus(ctx, exec, t.ID, models.StatusActive); err != nil {
			return handleRepositoryError(err)
		}
		t.Status = models.StatusActive

		tournament = t
		result = &RoundResult{TournamentID: t.ID, Round: 1, Matches: matches}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncRoundsGenerated(string(tournament.Format))
	s.logger.Info("tournament started",
		slog.Int("tournament_id", tournament.ID),
		slog.String("format", string(tournament.Format)),
		slog.Int("matches", len(result.Matches)))
	s.broadcaster.Publish(tournament.ID, hub.EventRoundCreated, result)
	return result, nil
}

func (s *tournamentService) GenerateNextRound(ctx context.Context, tournamentID, userID int) (*RoundResult, error) {
	unlock := s.locks.Lock(tournamentID)
	defer unlock()

	var (
		tournament *models.Tournament
		result     *RoundResult
	)
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		t, err := s.lockTournament(ctx, exec, tournamentID, userID)
		if err != nil {
			return err
		}
		if t.Status != models.StatusActive {
			return ErrTournamentNotActive
		}
		if err := s.loadState(ctx, exec, t); err != nil {
			return err
		}
		if !allFinished(t.Matches) {
			return ErrRoundInProgress
		}
		format, err := formatFor(t)
		if err != nil {
			return err
		}
		tournament = t

		if format.IsComplete(t.Participants, t.Matches) {
			placements, err := s.finalize(ctx, exec, t, format)
			if err != nil {
				return err
			}
			result = &RoundResult{TournamentID: t.ID, Completed: true, Placements: placements}
			return nil
		}

		started := time.Now()
		pairings := format.NextRound(t.Participants, t.Matches)
		s.metrics.ObservePairingDuration(time.Since(started).Seconds())

		if len(pairings) == 0 {
			placements, err := s.finalize(ctx, exec, t, format)
			if err != nil {
				return err
			}
			result = &RoundResult{TournamentID: t.ID, Completed: true, Placements: placements}
			return nil
		}

		matches := pairingsToMatches(t.ID, pairings)
		if err := s.matchRepo.CreateBatch(ctx, exec, matches); err != nil {
			return handleRepositoryError(err)
		}
		result = &RoundResult{TournamentID: t.ID, Round: pairings[0].Round, Matches: matches}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Completed {
		s.afterCompletion(ctx, tournament, result.Placements)
		return result, nil
	}

	s.metrics.IncRoundsGenerated(string(tournament.Format))
	s.logger.Info("round generated",
		slog.Int("tournament_id", tournament.ID),
		slog.Int("round", result.Round),
		slog.Int("matches", len(result.Matches)))
	s.broadcaster.Publish(tournament.ID, hub.EventRoundCreated, result)
	return result, nil
}

func (s *tournamentService) SubmitResult(ctx context.Context, matchID, winnerID, userID int) (*models.Match, error) {
	existing, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	unlock := s.locks.Lock(existing.TournamentID)
	defer unlock()

	var (
		tournament *models.Tournament
		updated    *models.Match
		placements []models.Placement
	)
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		t, err := s.lockTournament(ctx, exec, existing.TournamentID, userID)
		if err != nil {
			return err
		}
		if t.Status != models.StatusActive {
			return ErrTournamentNotActive
		}

		m, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			return handleRepositoryError(err)
		}
		switch {
		case m.Status == models.MatchStatusBye || m.Player1ID == nil || m.Player2ID == nil:
			return ErrMatchIsBye
		case m.Status == models.MatchStatusCompleted:
			return ErrMatchAlreadyCompleted
		case !m.HasPlayer(winnerID):
			return ErrInvalidWinner
		}

		if err := s.matchRepo.UpdateResult(ctx, exec, m.ID, &winnerID, models.MatchStatusCompleted); err != nil {
			return handleRepositoryError(err)
		}
		m.WinnerID = &winnerID
		m.Status = models.MatchStatusCompleted
		updated = m
		tournament = t

		// Round-robin schedules are fully persisted, so the last result
		// completes the tournament.
		if t.Format != models.FormatRoundRobin {
			return nil
		}
		if err := s.loadState(ctx, exec, t); err != nil {
			return err
		}
		format, err := formatFor(t)
		if err != nil {
			return err
		}
		if format.IsComplete(t.Participants, t.Matches) {
			placements, err = s.finalize(ctx, exec, t, format)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncResultsRecorded()
	s.logger.Info("match result recorded",
		slog.Int("tournament_id", tournament.ID),
		slog.Int("match_id", updated.ID),
		slog.Int("winner_id", winnerID))
	s.broadcaster.Publish(tournament.ID, hub.EventMatchUpdated, updated)

	if tournament.Status == models.StatusCompleted {
		s.afterCompletion(ctx, tournament, placements)
	}
	return updated, nil
}

// finalize writes placements and completes the tournament inside exec's
// transaction. t must carry its participants and matches.
func (s *tournamentService) finalize(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, format brackets.Format) ([]models.Placement, error) {
	if !t.Status.CanTransitionTo(models.StatusCompleted) {
		return nil, fmt.Errorf("%w: cannot complete a tournament in status %q", ErrTournamentInvalidStatusTransition, t.Status)
	}
	placements := format.Placements(t.Participants, t.Matches)
	if err := s.placementRepo.ReplaceForTournament(ctx, exec, t.ID, placements); err != nil {
		return nil, fmt.Errorf("failed to store placements: %w", err)
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, exec, t.ID, models.StatusCompleted); err != nil {
		return nil, handleRepositoryError(err)
	}
	t.Status = models.StatusCompleted
	return placements, nil
}

// afterCompletion runs once the completing transaction has committed.
// Archive failures are logged and do not fail the request.
func (s *tournamentService) afterCompletion(ctx context.Context, t *models.Tournament, placements []models.Placement) {
	s.metrics.IncTournamentsCompleted(string(t.Format))
	s.logger.Info("tournament completed",
		slog.Int("tournament_id", t.ID),
		slog.Int("placements", len(placements)))

	payload := CompletionPayload{TournamentID: t.ID, Placements: placements}
	if s.archive != nil {
		res, err := s.archive.Save(ctx, &storage.TournamentResults{
			TournamentID: t.ID,
			Name:         t.Name,
			Format:       t.Format,
			Rounds:       brackets.CurrentRound(t.Matches),
			Placements:   placements,
			Matches:      t.Matches,
			CompletedAt:  time.Now().UTC(),
		})
		if err != nil {
			s.logger.Error("failed to archive tournament results",
				slog.Int("tournament_id", t.ID),
				slog.Any("error", err))
		} else {
			payload.ArchiveURL = res.Location
		}
	}
	s.broadcaster.Publish(t.ID, hub.EventTournamentCompleted, payload)
}
