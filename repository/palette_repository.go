package repository

import (
	"context"
	"errors"

	"hueforge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicatePalette is returned when the (user_id, colors) unique
// constraint rejects an insert.
var ErrDuplicatePalette = errors.New("palette already saved")

const uniqueViolationCode = "23505"

// PaletteRepository handles database operations for palettes
type PaletteRepository struct {
	db *pgxpool.Pool
}

// NewPaletteRepository creates a new palette repository
func NewPaletteRepository(db *pgxpool.Pool) *PaletteRepository {
	return &PaletteRepository{db: db}
}

// Create inserts a palette. The unique constraint on (user_id, colors)
// is the authoritative duplicate check; a violation maps to
// ErrDuplicatePalette.
func (r *PaletteRepository) Create(ctx context.Context, palette *models.Palette) error {
	query := `
		INSERT INTO palettes (user_id, name, colors, is_saved)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		palette.UserID,
		palette.Name,
		palette.Colors,
		palette.IsSaved,
	).Scan(&palette.ID, &palette.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrDuplicatePalette
	}

	return err
}

// FindByUserAndColors looks up a palette by owner and the exact serialized
// color string. Used to attach the existing row to a 409 response.
func (r *PaletteRepository) FindByUserAndColors(ctx context.Context, userID uuid.UUID, colors string) (*models.Palette, error) {
	palette := &models.Palette{}
	query := `
		SELECT id, user_id, name, colors, is_saved, created_at
		FROM palettes
		WHERE user_id = $1 AND colors = $2`

	err := r.db.QueryRow(ctx, query, userID, colors).Scan(
		&palette.ID,
		&palette.UserID,
		&palette.Name,
		&palette.Colors,
		&palette.IsSaved,
		&palette.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return palette, nil
}

// GetByID retrieves a palette by ID
func (r *PaletteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Palette, error) {
	palette := &models.Palette{}
	query := `
		SELECT id, user_id, name, colors, is_saved, created_at
		FROM palettes
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&palette.ID,
		&palette.UserID,
		&palette.Name,
		&palette.Colors,
		&palette.IsSaved,
		&palette.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return palette, nil
}

// ListSavedByUserID retrieves all saved palettes for a user, newest first
func (r *PaletteRepository) ListSavedByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Palette, error) {
	query := `
		SELECT id, user_id, name, colors, is_saved, created_at
		FROM palettes
		WHERE user_id = $1 AND is_saved = true
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var palettes []*models.Palette
	for rows.Next() {
		palette := &models.Palette{}
		err := rows.Scan(
			&palette.ID,
			&palette.UserID,
			&palette.Name,
			&palette.Colors,
			&palette.IsSaved,
			&palette.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		palettes = append(palettes, palette)
	}

	return palettes, rows.Err()
}

// Delete deletes a palette by primary key
func (r *PaletteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM palettes WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// CountByUserID counts all palettes generated-and-kept for a user
func (r *PaletteRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM palettes WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// CountSavedByUserID counts saved palettes for a user
func (r *PaletteRepository) CountSavedByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM palettes WHERE user_id = $1 AND is_saved = true`, userID).Scan(&count)
	return count, err
}
