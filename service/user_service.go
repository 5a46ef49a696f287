package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hueforge-backend/auth"
	"hueforge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

// UserStore is the subset of the user repository the services need.
type UserStore interface {
	GetByClerkID(ctx context.Context, clerkUserID string) (*models.User, error)
	CreateIfAbsent(ctx context.Context, user *models.User) (bool, error)
}

// IdentityProvider fetches profile details from the external auth provider.
// Satisfied by *auth.ClerkClient.
type IdentityProvider interface {
	GetUser(ctx context.Context, clerkUserID string) (*auth.Profile, error)
}

// SystemCounter counts generated and saved rows of one resource kind.
type SystemCounter interface {
	CountByUserID(ctx context.Context, userID uuid.UUID) (int, error)
	CountSavedByUserID(ctx context.Context, userID uuid.UUID) (int, error)
}

// UserService handles lazy provisioning of local user mirrors and
// per-user usage counters.
type UserService struct {
	users        UserStore
	provider     IdentityProvider
	palettes     SystemCounter
	typographies SystemCounter
	components   SystemCounter
}

// UserServiceOption is a functional option for UserService
type UserServiceOption func(*UserService)

// WithUserStore sets the user store
func WithUserStore(store UserStore) UserServiceOption {
	return func(s *UserService) {
		s.users = store
	}
}

// WithIdentityProvider sets the external identity provider
func WithIdentityProvider(provider IdentityProvider) UserServiceOption {
	return func(s *UserService) {
		s.provider = provider
	}
}

// WithPaletteCounter sets the palette counter
func WithPaletteCounter(counter SystemCounter) UserServiceOption {
	return func(s *UserService) {
		s.palettes = counter
	}
}

// WithTypographyCounter sets the typography counter
func WithTypographyCounter(counter SystemCounter) UserServiceOption {
	return func(s *UserService) {
		s.typographies = counter
	}
}

// WithComponentCounter sets the component counter
func WithComponentCounter(counter SystemCounter) UserServiceOption {
	return func(s *UserService) {
		s.components = counter
	}
}

// NewUserService creates a new user service
func NewUserService(opts ...UserServiceOption) *UserService {
	s := &UserService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileMissing  = errors.New("auth provider returned no profile")
	ErrProvisionFailed = errors.New("failed to provision user")
)

// EnsureUserRequest identifies the external identity to provision.
type EnsureUserRequest struct {
	ClerkUserID string
}

// EnsureUserResult reports the local user mirror and whether this call
// created it.
type EnsureUserResult struct {
	User    *models.User
	Created bool
}

// EnsureUser returns the local mirror for an external identity, creating it
// from the provider profile on first contact. Concurrent first-requests are
// safe: the insert is conflict-free on the external id, and the loser of the
// race reads back the winner's row.
func (s *UserService) EnsureUser(ctx context.Context, req EnsureUserRequest) (*EnsureUserResult, error) {
	if s.users == nil {
		return nil, errors.New("user store not set")
	}

	user, err := s.users.GetByClerkID(ctx, req.ClerkUserID)
	if err == nil {
		return &EnsureUserResult{User: user, Created: false}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if s.provider == nil {
		return nil, errors.New("identity provider not set")
	}

	profile, err := s.provider.GetUser(ctx, req.ClerkUserID)
	if err != nil {
		if errors.Is(err, auth.ErrProfileNotFound) {
			return nil, ErrProfileMissing
		}
		return nil, fmt.Errorf("%w: %v", ErrProvisionFailed, err)
	}

	username := profile.Username
	if username == "" {
		// Derive from the email local-part, same as the provider-side default
		username = strings.SplitN(profile.Email, "@", 2)[0]
	}

	user = &models.User{
		ClerkUserID: req.ClerkUserID,
		Email:       profile.Email,
		Username:    username,
		Firstname:   profile.FirstName,
		Lastname:    profile.LastName,
	}

	created, err := s.users.CreateIfAbsent(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvisionFailed, err)
	}

	return &EnsureUserResult{User: user, Created: created}, nil
}

// GetUserRequest identifies an external identity.
type GetUserRequest struct {
	ClerkUserID string
}

// GetUserResult holds the local mirror for an external identity.
type GetUserResult struct {
	User *models.User
}

// GetUser looks up the local mirror without provisioning.
func (s *UserService) GetUser(ctx context.Context, req GetUserRequest) (*GetUserResult, error) {
	if s.users == nil {
		return nil, errors.New("user store not set")
	}

	user, err := s.users.GetByClerkID(ctx, req.ClerkUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &GetUserResult{User: user}, nil
}

// StatsRequest identifies the user whose counters to aggregate.
type StatsRequest struct {
	ClerkUserID string
}

// StatsResult carries the six generated/saved counters, one pair per
// resource kind.
type StatsResult struct {
	GeneratedPaletteSystems    int `json:"generatedPaletteSystems"`
	GeneratedTypographySystems int `json:"generatedTypographySystems"`
	GeneratedComponentSystems  int `json:"generatedComponentSystems"`
	SavedPaletteSystems        int `json:"savedPaletteSystems"`
	SavedTypographySystems     int `json:"savedTypographySystems"`
	SavedComponentSystems      int `json:"savedComponentSystems"`
}

// Stats aggregates the six counters concurrently; any failing count fails
// the whole request.
func (s *UserService) Stats(ctx context.Context, req StatsRequest) (*StatsResult, error) {
	if s.users == nil {
		return nil, errors.New("user store not set")
	}
	if s.palettes == nil || s.typographies == nil || s.components == nil {
		return nil, errors.New("counters not set")
	}

	user, err := s.users.GetByClerkID(ctx, req.ClerkUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	result := &StatsResult{}
	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int, fn func(context.Context, uuid.UUID) (int, error)) {
		g.Go(func() error {
			n, err := fn(gctx, user.ID)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}

	count(&result.GeneratedPaletteSystems, s.palettes.CountByUserID)
	count(&result.SavedPaletteSystems, s.palettes.CountSavedByUserID)
	count(&result.GeneratedTypographySystems, s.typographies.CountByUserID)
	count(&result.SavedTypographySystems, s.typographies.CountSavedByUserID)
	count(&result.GeneratedComponentSystems, s.components.CountByUserID)
	count(&result.SavedComponentSystems, s.components.CountSavedByUserID)

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}
