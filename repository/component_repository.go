package repository

import (
	"context"

	"hueforge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ComponentRepository handles database operations for UI components
type ComponentRepository struct {
	db *pgxpool.Pool
}

// NewComponentRepository creates a new component repository
func NewComponentRepository(db *pgxpool.Pool) *ComponentRepository {
	return &ComponentRepository{db: db}
}

// Create inserts a component
func (r *ComponentRepository) Create(ctx context.Context, component *models.Component) error {
	query := `
		INSERT INTO components (
			user_id, component_name, category, description, tech_stack,
			code_files, preview_code, is_saved
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		component.UserID,
		component.ComponentName,
		component.Category,
		component.Description,
		component.TechStack,
		component.CodeFiles,
		component.PreviewCode,
		component.IsSaved,
	).Scan(&component.ID, &component.CreatedAt)

	return err
}

// GetByID retrieves a component by ID
func (r *ComponentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Component, error) {
	component := &models.Component{}
	query := `
		SELECT id, user_id, component_name, category, description, tech_stack,
			code_files, preview_code, is_saved, created_at
		FROM components
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&component.ID,
		&component.UserID,
		&component.ComponentName,
		&component.Category,
		&component.Description,
		&component.TechStack,
		&component.CodeFiles,
		&component.PreviewCode,
		&component.IsSaved,
		&component.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return component, nil
}

// ListSavedByUserID retrieves all saved components for a user, newest first
func (r *ComponentRepository) ListSavedByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Component, error) {
	query := `
		SELECT id, user_id, component_name, category, description, tech_stack,
			code_files, preview_code, is_saved, created_at
		FROM components
		WHERE user_id = $1 AND is_saved = true
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var components []*models.Component
	for rows.Next() {
		component := &models.Component{}
		err := rows.Scan(
			&component.ID,
			&component.UserID,
			&component.ComponentName,
			&component.Category,
			&component.Description,
			&component.TechStack,
			&component.CodeFiles,
			&component.PreviewCode,
			&component.IsSaved,
			&component.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		components = append(components, component)
	}

	return components, rows.Err()
}

// Delete deletes a component by primary key
func (r *ComponentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM components WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// CountByUserID counts all components for a user
func (r *ComponentRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM components WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// CountSavedByUserID counts saved components for a user
func (r *ComponentRepository) CountSavedByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM components WHERE user_id = $1 AND is_saved = true`, userID).Scan(&count)
	return count, err
}
