package service

import (
	"context"
	"errors"
	"strings"

	"hueforge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ComponentStore is the subset of the component repository the service needs.
type ComponentStore interface {
	Create(ctx context.Context, component *models.Component) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Component, error)
	ListSavedByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Component, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ComponentService handles saving, listing and deleting UI components.
type ComponentService struct {
	components ComponentStore
	users      UserProvisioner
}

// ComponentServiceOption is a functional option for ComponentService
type ComponentServiceOption func(*ComponentService)

// WithComponentStore sets the component store
func WithComponentStore(store ComponentStore) ComponentServiceOption {
	return func(s *ComponentService) {
		s.components = store
	}
}

// ComponentWithUserProvisioner sets the user provisioner
func ComponentWithUserProvisioner(users UserProvisioner) ComponentServiceOption {
	return func(s *ComponentService) {
		s.users = users
	}
}

// NewComponentService creates a new component service
func NewComponentService(opts ...ComponentServiceOption) *ComponentService {
	s := &ComponentService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var ErrComponentNotFound = errors.New("component not found")

// SaveComponentRequest represents a request to save a component
type SaveComponentRequest struct {
	ClerkUserID string
	Component   models.GeneratedComponent
}

// SaveComponentResult represents the saved component
type SaveComponentResult struct {
	Component *models.Component
}

// SaveComponent persists a component for the identity. Unlike palette and
// typography saves this path does not provision the user mirror; the
// identity must already exist locally. Literal backslash-n sequences in the
// generated code are normalized to real newlines at save time.
func (s *ComponentService) SaveComponent(ctx context.Context, req SaveComponentRequest) (*SaveComponentResult, error) {
	if s.components == nil {
		return nil, errors.New("component store not set")
	}
	if s.users == nil {
		return nil, errors.New("user provisioner not set")
	}

	owner, err := s.users.GetUser(ctx, GetUserRequest{ClerkUserID: req.ClerkUserID})
	if err != nil {
		return nil, err
	}

	cleanedFiles := make(models.CodeFiles, len(req.Component.CodeFiles))
	for i, f := range req.Component.CodeFiles {
		f.Content = strings.ReplaceAll(f.Content, `\n`, "\n")
		cleanedFiles[i] = f
	}

	component := &models.Component{
		UserID:        owner.User.ID,
		ComponentName: req.Component.ComponentName,
		Category:      req.Component.Category,
		Description:   req.Component.Description,
		TechStack:     req.Component.TechStack,
		CodeFiles:     cleanedFiles,
		PreviewCode:   strings.ReplaceAll(req.Component.PreviewCode, `\n`, "\n"),
		IsSaved:       true,
	}

	if err := s.components.Create(ctx, component); err != nil {
		return nil, err
	}

	return &SaveComponentResult{Component: component}, nil
}

// DeleteComponentRequest represents a request to delete a component
type DeleteComponentRequest struct {
	ClerkUserID string
	ID          uuid.UUID
}

// DeleteComponentResult carries the deleted row
type DeleteComponentResult struct {
	Component *models.Component
}

// DeleteComponent removes a component after verifying ownership.
func (s *ComponentService) DeleteComponent(ctx context.Context, req DeleteComponentRequest) (*DeleteComponentResult, error) {
	if s.components == nil {
		return nil, errors.New("component store not set")
	}
	if s.users == nil {
		return nil, errors.New("user provisioner not set")
	}

	component, err := s.components.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrComponentNotFound
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
	if owner.User.ID != component.UserID {
		return nil, ErrNotOwner
	}

	if err := s.components.Delete(ctx, req.ID); err != nil {
		return nil, err
	}

	return &DeleteComponentResult{Component: component}, nil
}

// ListComponentsRequest identifies the user whose saved components to list
type ListComponentsRequest struct {
	ClerkUserID string
}

// ListComponentsResult holds the saved components
type ListComponentsResult struct {
	Components []*models.Component
}

// ListComponents returns the identity's saved components, newest first.
// An identity with no mirror gets an empty list.
func (s *ComponentService) ListComponents(ctx context.Context, req ListComponentsRequest) (*ListComponentsResult, error) {
	if s.components == nil {
		return nil, errors.New("component store not set")
	}
	if s.users == nil {
		return nil, errors.New("user provisioner not set")
	}

	owner, err := s.users.GetUser(ctx, GetUserRequest{ClerkUserID: req.ClerkUserID})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return &ListComponentsResult{Components: []*models.Component{}}, nil
		}
		return nil, err
	}

	components, err := s.components.ListSavedByUserID(ctx, owner.User.ID)
	if err != nil {
		return nil, err
	}
	if components == nil {
		components = []*models.Component{}
	}

	return &ListComponentsResult{Components: components}, nil
}

// GetComponentRequest identifies a component by ID
type GetComponentRequest struct {
	ID uuid.UUID
}

// GetComponentResult holds a single component row
type GetComponentResult struct {
	Component *models.Component
}

// GetComponent fetches one component by primary key. Public.
func (s *ComponentService) GetComponent(ctx context.Context, req GetComponentRequest) (*GetComponentResult, error) {
	if s.components == nil {
		return nil, errors.New("component store not set")
	}

	component, err := s.components.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrComponentNotFound
		}
		return nil, err
	}

	return &GetComponentResult{Component: component}, nil
}
