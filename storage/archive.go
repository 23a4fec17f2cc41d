package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

// TournamentResults is the document written when a tournament completes.
type TournamentResults struct {
	TournamentID int                `json:"tournament_id"`
	Name         string             `json:"name"`
	Format       models.FormatKind  `json:"format"`
	Rounds       int                `json:"rounds"`
	Placements   []models.Placement `json:"placements"`
	Matches      []models.Match     `json:"matches"`
	CompletedAt  time.Time          `json:"completed_at"`
}

// ResultsArchive stores final tournament results as JSON objects.
type ResultsArchive struct {
	store ObjectStore
}

func NewResultsArchive(store ObjectStore) *ResultsArchive {
	return &ResultsArchive{store: store}
}

func ResultsKey(tournamentID int) string {
	return fmt.Sprintf("tournaments/%d/results.json", tournamentID)
}

func (a *ResultsArchive) Save(ctx context.Context, results *TournamentResults) (*UploadResult, error) {
	body, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode results of tournament %d: %w", results.TournamentID, err)
	}
	return a.store.Put(ctx, ResultsKey(results.TournamentID), "application/json", bytes.NewReader(body))
}
