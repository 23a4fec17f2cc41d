package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/lib/pq"
)

var ErrPlacementParticipantInvalid = errors.New("placement participant conflict or invalid")

type PlacementRepository interface {
	// ReplaceForTournament drops any stored placements of the tournament and
	// writes the given ones.
	ReplaceForTournament(ctx context.Context, exec SQLExecutor, tournamentID int, placements []models.Placement) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Placement, error)
}

type postgresPlacementRepository struct {
	db *sql.DB
}

func NewPostgresPlacementRepository(db *sql.DB) PlacementRepository {
	return &postgresPlacementRepository{db: db}
}

func (r *postgresPlacementRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlacementRepository) ReplaceForTournament(ctx context.Context, exec SQLExecutor, tournamentID int, placements []models.Placement) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM placements WHERE tournament_id = $1`, tournamentID); err != nil {
		return fmt.Errorf("failed to clear placements of tournament %d: %w", tournamentID, err)
	}
	if len(placements) == 0 {
		return nil
	}

	n := len(placements)
	participantIDs := make([]int64, n)
	ranks := make([]int64, n)
	wins := make([]int64, n)
	losses := make([]int64, n)
	points := make([]int64, n)
	for i, p := range placements {
		participantIDs[i] = int64(p.Participant.ID)
		ranks[i] = int64(p.Rank)
		wins[i] = int64(p.Wins)
		losses[i] = int64(p.Losses)
		points[i] = int64(p.Points)
	}

	query := `
		INSERT INTO placements (tournament_id, participant_id, rank, wins, losses, points)
		SELECT $1::int, * FROM unnest($2::int[], $3::int[], $4::int[], $5::int[], $6::int[])`
	_, err := executor.ExecContext(ctx, query, tournamentID,
		pq.Array(participantIDs), pq.Array(ranks), pq.Array(wins), pq.Array(losses), pq.Array(points))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrPlacementParticipantInvalid
		}
		return fmt.Errorf("failed to insert placements of tournament %d: %w", tournamentID, err)
	}
	return nil
}

func (r *postgresPlacementRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Placement, error) {
	query := `
		SELECT p.participant_id, pa.name, p.rank, p.wins, p.losses, p.points
		FROM placements p
		JOIN participants pa ON pa.id = p.participant_id
		WHERE p.tournament_id = $1
		ORDER BY p.rank ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query placements for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	placements := make([]models.Placement, 0)
	for rows.Next() {
		var p models.Placement
		if err := rows.Scan(&p.Participant.ID, &p.Participant.Name, &p.Rank, &p.Wins, &p.Losses, &p.Points); err != nil {
			return nil, fmt.Errorf("failed to scan placement: %w", err)
		}
		placements = append(placements, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("placement rows error for tournament %d: %w", tournamentID, err)
	}
	return placements, nil
}
