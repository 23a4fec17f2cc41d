package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchParticipantInvalid = errors.New("match participant invalid or missing")
	ErrMatchConflict           = errors.New("match conflicts with an existing match")
)

type MatchRepository interface {
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Match, error)
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	UpdateResult(ctx context.Context, exec SQLExecutor, id int, winnerID *int, status models.MatchStatus) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) scanMatch(row rowScanner) (*models.Match, error) {
	var (
		m                        models.Match
		player1, player2, winner sql.NullInt64
	)
	err := row.Scan(&m.ID, &m.TournamentID, &m.Round, &player1, &player2, &winner, &m.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	m.Player1ID = nullIntPtr(player1)
	m.Player2ID = nullIntPtr(player2)
	m.WinnerID = nullIntPtr(winner)
	return &m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Match, error) {
	query := `
		SELECT id, tournament_id, round, player1_id, player2_id, winner_id, status
		FROM matches
		WHERE tournament_id = $1
		ORDER BY round ASC, id ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		m, err := r.scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("match rows error for tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `
		SELECT id, tournament_id, round, player1_id, player2_id, winner_id, status
		FROM matches
		WHERE id = $1`

	m, err := r.scanMatch(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return m, nil
}

// CreateBatch inserts matches with one prepared statement and fills in their
// IDs. It is meant to run inside a transaction.
func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}

	stmt, err := r.getExecutor(exec).PrepareContext(ctx, `
		INSERT INTO matches (tournament_id, round, player1_id, player2_id, winner_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`)
	if err != nil {
		return fmt.Errorf("CreateBatch failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, m := range matches {
		err := stmt.QueryRowContext(ctx,
			m.TournamentID, m.Round, m.Player1ID, m.Player2ID, m.WinnerID, m.Status,
		).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("CreateBatch failed for round %d: %w", m.Round, mapMatchError(err))
		}
	}
	return nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, id int, winnerID *int, status models.MatchStatus) error {
	query := `UPDATE matches SET winner_id = $1, status = $2, updated_at = NOW() WHERE id = $3`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, winnerID, status, id)
	if err != nil {
		return fmt.Errorf("failed to update result of match %d: %w", id, mapMatchError(err))
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func mapMatchError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23503": // foreign_key_violation
			return ErrMatchParticipantInvalid
		case "23505": // unique_violation
			return ErrMatchConflict
		}
	}
	return err
}
