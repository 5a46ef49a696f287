package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hueforge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TypographyStore is the subset of the typography repository the service needs.
type TypographyStore interface {
	Create(ctx context.Context, typography *models.Typography) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Typography, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Typography, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TypographyService handles saving, listing and deleting typography presets.
type TypographyService struct {
	typographies TypographyStore
	users        UserProvisioner
}

// TypographyServiceOption is a functional option for TypographyService
type TypographyServiceOption func(*TypographyService)

// WithTypographyStore sets the typography store
func WithTypographyStore(store TypographyStore) TypographyServiceOption {
	return func(s *TypographyService) {
		s.typographies = store
	}
}

// TypographyWithUserProvisioner sets the user provisioner
func TypographyWithUserProvisioner(users UserProvisioner) TypographyServiceOption {
	return func(s *TypographyService) {
		s.users = users
	}
}

// NewTypographyService creates a new typography service
func NewTypographyService(opts ...TypographyServiceOption) *TypographyService {
	s := &TypographyService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var ErrTypographyNotFound = errors.New("typography not found")

// SaveTypographyRequest represents a request to save a typography preset
type SaveTypographyRequest struct {
	ClerkUserID string
	FontFamily  string
	Name        []string
	Levels      []models.TypographyLevel
	Prompt      string
}

// SaveTypographyResult represents the saved typography preset
type SaveTypographyResult struct {
	Typography *models.Typography
}

// SaveTypography persists a typography preset for the identity,
// provisioning the user mirror when absent. Name and levels are stored as
// serialized JSON text.
func (s *TypographyService) SaveTypography(ctx context.Context, req SaveTypographyRequest) (*SaveTypographyResult, error) {
	if s.typographies == nil {
		return nil, errors.New("typography store not set")
	}
	if s.users == nil {
		return nil, errors.New("user provisioner not set")
	}

	ensured, err := s.users.EnsureUser(ctx, EnsureUserRequest{ClerkUserID: req.ClerkUserID})
	if err != nil {
		return nil, err
	}

	nameData, err := json.Marshal(req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize name: %w", err)
	}
	levelsData, err := json.Marshal(req.Levels)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize levels: %w", err)
	}

	typography := &models.Typography{
		UserID:     ensured.User.ID,
		FontFamily: req.FontFamily,
		Name:       string(nameData),
		Levels:     string(levelsData),
		Prompt:     req.Prompt,
		IsSaved:    true,
	}

	if err := s.typographies.Create(ctx, typography); err != nil {
		return nil, err
	}

	return &SaveTypographyResult{Typography: typography}, nil
}

// DeleteTypographyRequest represents a request to delete a typography preset
type DeleteTypographyRequest struct {
	ClerkUserID string
	ID          uuid.UUID
}

// DeleteTypographyResult carries the deleted row
type DeleteTypographyResult struct {
	Typography *models.Typography
}

// DeleteTypography removes a typography preset after verifying ownership.
func (s *TypographyService) DeleteTypography(ctx context.Context, req DeleteTypographyRequest) (*DeleteTypographyResult, error) {
	if s.typographies == nil {
		return nil, errors.New("typography store not set")
	}
	if s.users == nil {
		return nil, errors.New("user provisioner not set")
	}

	typography, err := s.typographies.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTypographyNotFound
		}
		return nil, err
	}

	owner, err := s.users.GetUser(ctx, GetUserRequest{ClerkUserID: req.ClerkUserID})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrNotOwner
		}
		return nil, err
	}
	if owner.User.ID != typography.UserID {
		return nil, ErrNotOwner
	}

	if err := s.typographies.Delete(ctx, req.ID); err != nil {
		return nil, err
	}

	return &DeleteTypographyResult{Typography: typography}, nil
}

// ListTypographiesRequest identifies the user whose presets to list
type ListTypographiesRequest struct {
	ClerkUserID string
}

// ListTypographiesResult holds the presets with name and levels re-parsed
type ListTypographiesResult struct {
	Typographies []models.SavedTypography
}

// ListTypographies returns the identity's typography presets with the
// serialized columns re-parsed. An identity with no mirror gets an empty
// list.
func (s *TypographyService) ListTypographies(ctx context.Context, req ListTypographiesRequest) (*ListTypographiesResult, error) {
	if s.typographies == nil {
		return nil, errors.New("typography store not set")
	}
	if s.users == nil {
		return nil, errors.New("user provisioner not set")
	}

	owner, err := s.users.GetUser(ctx, GetUserRequest{ClerkUserID: req.ClerkUserID})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return &ListTypographiesResult{Typographies: []models.SavedTypography{}}, nil
		}
		return nil, err
	}

	typographies, err := s.typographies.ListByUserID(ctx, owner.User.ID)
	if err != nil {
		return nil, err
	}

	parsed := make([]models.SavedTypography, 0, len(typographies))
	for _, t := range typographies {
		names, err := t.ParsedName()
		if err != nil {
			return nil, fmt.Errorf("failed to parse name for typography %s: %w", t.ID, err)
		}
		levels, err := t.ParsedLevels()
		if err != nil {
			return nil, fmt.Errorf("failed to parse levels for typography %s: %w", t.ID, err)
		}
		parsed = append(parsed, models.SavedTypography{
			ID:         t.ID,
			UserID:     t.UserID,
			FontFamily: t.FontFamily,
			Name:       names,
			Levels:     levels,
			Prompt:     t.Prompt,
			IsSaved:    t.IsSaved,
			CreatedAt:  t.CreatedAt,
		})
	}

	return &ListTypographiesResult{Typographies: parsed}, nil
}

// GetTypographyRequest identifies a typography preset by ID
type GetTypographyRequest struct {
	ID uuid.UUID
}

// GetTypographyResult holds a single typography row
type GetTypographyResult struct {
	Typography *models.Typography
}

// GetTypography fetches one preset by primary key. Public.
func (s *TypographyService) GetTypography(ctx context.Context, req GetTypographyRequest) (*GetTypographyResult, error) {
	if s.typographies == nil {
		return nil, errors.New("typography store not set")
	}

	typography, err := s.typographies.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTypographyNotFound
		}
		return nil, err
	}

	return &GetTypographyResult{Typography: typography}, nil
}
