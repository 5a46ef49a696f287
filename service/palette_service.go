package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hueforge-backend/models"
	"hueforge-backend/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserProvisioner resolves external identities to local user mirrors.
// Satisfied by *UserService; the resource services use it for lazy
// provisioning on save and ownership checks on delete.
type UserProvisioner interface {
	EnsureUser(ctx context.Context, req EnsureUserRequest) (*EnsureUserResult, error)
	GetUser(ctx context.Context, req GetUserRequest) (*GetUserResult, error)
}

// PaletteStore is the subset of the palette repository the service needs.
type PaletteStore interface {
	Create(ctx context.Context, palette *models.Palette) error
	FindByUserAndColors(ctx context.Context, userID uuid.UUID, colors string) (*models.Palette, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Palette, error)
	ListSavedByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Palette, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaletteService handles saving, listing and deleting color palettes.
type PaletteService struct {
	palettes PaletteStore
	users    UserProvisioner
}

// PaletteServiceOption is a functional option for PaletteService
type PaletteServiceOption func(*PaletteService)

// WithPaletteStore sets the palette store
func WithPaletteStore(store PaletteStore) PaletteServiceOption {
	return func(s *PaletteService) {
		s.palettes = store
	}
}

// PaletteWithUserProvisioner sets the user provisioner
func PaletteWithUserProvisioner(users UserProvisioner) PaletteServiceOption {
	return func(s *PaletteService) {
		s.users = users
	}
}

// NewPaletteService creates a new palette service
func NewPaletteService(opts ...PaletteServiceOption) *PaletteService {
	s := &PaletteService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrPaletteNotFound = errors.New("palette not found")
	ErrNotOwner        = errors.New("resource owned by another user")
)

// DuplicatePaletteError reports that the user already saved an identical
// color array. Existing carries the previously saved row for the 409 body.
type DuplicatePaletteError struct {
	Existing *models.Palette
}

func (e *DuplicatePaletteError) Error() string {
	return "palette already saved"
}

// SavePaletteRequest represents a request to save a palette
type SavePaletteRequest struct {
	ClerkUserID string
	Name        string
	Colors      []models.PaletteColor
}

// SavePaletteResult represents the saved palette
type SavePaletteResult struct {
	Palette *models.Palette
}

// SavePalette persists a palette for the identity, provisioning the user
// mirror when absent. Duplicate detection is an exact match on the
// serialized color array: the pre-check fetches the existing row for the
// conflict response, and the unique constraint closes the race two
// concurrent identical saves would otherwise win together.
func (s *PaletteService) SavePalette(ctx context.Context, req SavePaletteRequest) (*SavePaletteResult, error) {
	if s.palettes == nil {
		return nil, errors.New("palette store not set")
	}
	if s.users == nil {
		return nil, errors.New("user provisioner not set")
	}

	ensured, err := s.users.EnsureUser(ctx, EnsureUserRequest{ClerkUserID: req.ClerkUserID})
	if err != nil {
		return nil, err
	}
	user := ensured.User

	colorsData, err := json.Marshal(req.Colors)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize colors: %w", err)
	}
	colorsString := string(colorsData)

	existing, err := s.palettes.FindByUserAndColors(ctx, user.ID, colorsString)
	if err == nil {
		return nil, &DuplicatePaletteError{Existing: existing}
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	palette := &models.Palette{
		UserID:  user.ID,
		Name:    req.Name,
		Colors:  colorsString,
		IsSaved: true,
	}

	err = s.palettes.Create(ctx, palette)
	if errors.Is(err, repository.ErrDuplicatePalette) {
		// Lost the race: surface the winner's row
		if existing, findErr := s.palettes.FindByUserAndColors(ctx, user.ID, colorsString); findErr == nil {
			return nil, &DuplicatePaletteError{Existing: existing}
		}
		return nil, &DuplicatePaletteError{}
	}
	if err != nil {
		return nil, err
	}

	return &SavePaletteResult{Palette: palette}, nil
}

// DeletePaletteRequest represents a request to delete a palette
type DeletePaletteRequest struct {
	ClerkUserID string
	ID          uuid.UUID
}

// DeletePaletteResult carries the deleted row
type DeletePaletteResult struct {
	Palette *models.Palette
}

// DeletePalette removes a palette after verifying the requesting identity
// owns it.
func (s *PaletteService) DeletePalette(ctx context.Context, req DeletePaletteRequest) (*DeletePaletteResult, error) {
	if s.palettes == nil {
		return nil, errors.New("palette store not set")
	}
	if s.users == nil {
		return nil, errors.New("user provisioner not set")
	}

	palette, err := s.palettes.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaletteNotFound
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
	if owner.User.ID != palette.UserID {
		return nil, ErrNotOwner
	}

	if err := s.palettes.Delete(ctx, req.ID); err != nil {
		return nil, err
	}

	return &DeletePaletteResult{Palette: palette}, nil
}

// ListPalettesRequest identifies the user whose saved palettes to list
type ListPalettesRequest struct {
	ClerkUserID string
}

// ListPalettesResult holds the saved palettes with colors re-parsed
type ListPalettesResult struct {
	Palettes []models.SavedPalette
}

// ListPalettes returns the identity's saved palettes, newest first, with
// the colors column re-parsed. An identity with no mirror yet has no
// palettes and gets an empty list.
func (s *PaletteService) ListPalettes(ctx context.Context, req ListPalettesRequest) (*ListPalettesResult, error) {
	if s.palettes == nil {
		return nil, errors.New("palette store not set")
	}
	if s.users == nil {
		return nil, errors.New("user provisioner not set")
	}

	owner, err := s.users.GetUser(ctx, GetUserRequest{ClerkUserID: req.ClerkUserID})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return &ListPalettesResult{Palettes: []models.SavedPalette{}}, nil
		}
		return nil, err
	}

	palettes, err := s.palettes.ListSavedByUserID(ctx, owner.User.ID)
	if err != nil {
		return nil, err
	}

	parsed := make([]models.SavedPalette, 0, len(palettes))
	for _, p := range palettes {
		colors, err := p.ParsedColors()
		if err != nil {
			return nil, fmt.Errorf("failed to parse colors for palette %s: %w", p.ID, err)
		}
		parsed = append(parsed, models.SavedPalette{
			ID:        p.ID,
			UserID:    p.UserID,
			Name:      p.Name,
			Colors:    colors,
			IsSaved:   p.IsSaved,
			CreatedAt: p.CreatedAt,
		})
	}

	return &ListPalettesResult{Palettes: parsed}, nil
}

// GetPaletteRequest identifies a palette by ID
type GetPaletteRequest struct {
	ID uuid.UUID
}

// GetPaletteResult holds a single palette row
type GetPaletteResult struct {
	Palette *models.Palette
}

// GetPalette fetches one palette by primary key. Public: shareable detail
// pages use it without authentication.
func (s *PaletteService) GetPalette(ctx context.Context, req GetPaletteRequest) (*GetPaletteResult, error) {
	if s.palettes == nil {
		return nil, errors.New("palette store not set")
	}

	palette, err := s.palettes.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaletteNotFound
		}
		return nil, err
	}

	return &GetPaletteResult{Palette: palette}, nil
}
