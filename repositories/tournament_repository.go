package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	// LockForUpdate loads the tournament and holds its row lock until the
	// surrounding transaction ends.
	LockForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const selectTournament = `
	SELECT id, name, organizer_id, format, settings_json, status, created_at
	FROM tournaments
	WHERE id = $1`

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	row := r.getExecutor(exec).QueryRowContext(ctx, selectTournament, id)
	return r.scanTournament(row, id)
}

func (r *postgresTournamentRepository) LockForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	if exec == nil {
		return nil, errors.New("LockForUpdate requires a transaction")
	}
	row := exec.QueryRowContext(ctx, selectTournament+" FOR UPDATE", id)
	return r.scanTournament(row, id)
}

func (r *postgresTournamentRepository) scanTournament(row rowScanner, id int) (*models.Tournament, error) {
	var (
		t        models.Tournament
		settings sql.NullString
	)
	err := row.Scan(&t.ID, &t.Name, &t.OrganizerID, &t.Format, &settings, &t.Status, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %d: %w", id, err)
	}

	if t.Format == models.FormatSwiss && settings.Valid {
		parsed, err := models.ParseSwissSettings(&settings.String)
		if err != nil {
			return nil, fmt.Errorf("invalid swiss settings for tournament %d: %w", id, err)
		}
		if parsed.MaxRounds > 0 {
			t.MaxRounds = &parsed.MaxRounds
		}
	}
	return &t, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	result, err := r.getExecutor(exec).ExecContext(ctx,
		`UPDATE tournaments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status of tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
