package repository

import (
	"context"

	"hueforge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TypographyRepository handles database operations for typography presets
type TypographyRepository struct {
	db *pgxpool.Pool
}

// NewTypographyRepository creates a new typography repository
func NewTypographyRepository(db *pgxpool.Pool) *TypographyRepository {
	return &TypographyRepository{db: db}
}

// Create inserts a typography preset
func (r *TypographyRepository) Create(ctx context.Context, typography *models.Typography) error {
	query := `
		INSERT INTO typographies (user_id, font_family, name, levels, prompt, is_saved)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		typography.UserID,
		typography.FontFamily,
		typography.Name,
		typography.Levels,
		typography.Prompt,
		typography.IsSaved,
	).Scan(&typography.ID, &typography.CreatedAt)

	return err
}

// GetByID retrieves a typography preset by ID
func (r *TypographyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Typography, error) {
	typography := &models.Typography{}
	query := `
		SELECT id, user_id, font_family, name, levels, prompt, is_saved, created_at
		FROM typographies
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&typography.ID,
		&typography.UserID,
		&typography.FontFamily,
		&typography.Name,
		&typography.Levels,
		&typography.Prompt,
		&typography.IsSaved,
		&typography.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return typography, nil
}

// ListByUserID retrieves all typography presets for a user
func (r *TypographyRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Typography, error) {
	query := `
		SELECT id, user_id, font_family, name, levels, prompt, is_saved, created_at
		FROM typographies
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var typographies []*models.Typography
	for rows.Next() {
		typography := &models.Typography{}
		err := rows.Scan(
			&typography.ID,
			&typography.UserID,
			&typography.FontFamily,
			&typography.Name,
			&typography.Levels,
			&typography.Prompt,
			&typography.IsSaved,
			&typography.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		typographies = append(typographies, typography)
	}

	return typographies, rows.Err()
}

// Delete deletes a typography preset by primary key
func (r *TypographyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM typographies WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// CountByUserID counts all typography presets for a user
func (r *TypographyRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM typographies WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// CountSavedByUserID counts saved typography presets for a user
func (r *TypographyRepository) CountSavedByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM typographies WHERE user_id = $1 AND is_saved = true`, userID).Scan(&count)
	return count, err
}
