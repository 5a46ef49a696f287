package repository

import (
	"context"

	"hueforge-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles database operations for user mirrors
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// GetByClerkID retrieves a user by the external auth subject id
func (r *UserRepository) GetByClerkID(ctx context.Context, clerkUserID string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, clerk_user_id, email, username, firstname, lastname, created_at, updated_at
		FROM users
		WHERE clerk_user_id = $1`

	err := r.db.QueryRow(ctx, query, clerkUserID).Scan(
		&user.ID,
		&user.ClerkUserID,
		&user.Email,
		&user.Username,
		&user.Firstname,
		&user.Lastname,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// CreateIfAbsent inserts the user keyed by clerk_user_id, or loads the
// existing row when another request won the race. ON CONFLICT DO NOTHING
// keeps concurrent first-requests from the same identity safe. Returns
// whether a new row was inserted.
func (r *UserRepository) CreateIfAbsent(ctx context.Context, user *models.User) (bool, error) {
	query := `
		INSERT INTO users (clerk_user_id, email, username, firstname, lastname)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (clerk_user_id) DO NOTHING
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		user.ClerkUserID,
		user.Email,
		user.Username,
		user.Firstname,
		user.Lastname,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err == nil {
		return true, nil
	}
	if err != pgx.ErrNoRows {
		return false, err
	}

	// Conflict: the row already exists, load it
	existing, err := r.GetByClerkID(ctx, user.ClerkUserID)
	if err != nil {
		return false, err
	}
	*user = *existing

	return false, nil
}
