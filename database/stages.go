package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// NewStage carries the fields for one stage in a batch insert.
type NewStage struct {
	Name         string
	DisplayOrder int
	Color        string
}

// ListStages returns the user's pipeline stages ordered by display order.
// Ties fall back to creation order.
func (s *DataService) ListStages(userID string) ([]PipelineStage, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, name, display_order, color, created_at
		FROM pipeline_stages
		WHERE user_id = ?
		ORDER BY display_order, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pipeline stages: %w", err)
	}
	defer rows.Close()

	stages := []PipelineStage{}
	for rows.Next() {
		var (
			stage PipelineStage
			color sql.NullString
		)
		if err := rows.Scan(&stage.ID, &stage.UserID, &stage.Name,
			&stage.DisplayOrder, &color, &stage.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pipeline stage: %w", err)
		}
		stage.Color = stringPtr(color)
		stages = append(stages, stage)
	}
	return stages, rows.Err()
}

// CreateStages inserts a batch of stages for the user in a single
// transaction, so a failed seed leaves zero rows behind.
func (s *DataService) CreateStages(userID string, stages []NewStage) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stage := range stages {
		_, err := tx.Exec(`
			INSERT INTO pipeline_stages (id, user_id, name, display_order, color)
			VALUES (?, ?, ?, ?, ?)`,
			uuid.NewString(), userID, stage.Name, stage.DisplayOrder, stage.Color)
		if err != nil {
			return fmt.Errorf("failed to insert stage %q: %w", stage.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit stages: %w", err)
	}
	return nil
}
