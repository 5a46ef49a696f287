package service

import (
	"context"
	"errors"
	"testing"

	"hueforge-backend/auth"
	"hueforge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

type mockUserStore struct {
	users map[string]*models.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[string]*models.User)}
}

func (m *mockUserStore) GetByClerkID(_ context.Context, clerkUserID string) (*models.User, error) {
	user, ok := m.users[clerkUserID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	stored := *user
	return &stored, nil
}

func (m *mockUserStore) CreateIfAbsent(_ context.Context, user *models.User) (bool, error) {
	if existing, ok := m.users[user.ClerkUserID]; ok {
		*user = *existing
		return false, nil
	}
	user.ID = uuid.New()
	stored := *user
	m.users[user.ClerkUserID] = &stored
	return true, nil
}

type stubIdentityProvider struct {
	profile *auth.Profile
	err     error
	calls   int
}

func (p *stubIdentityProvider) GetUser(_ context.Context, _ string) (*auth.Profile, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.profile, nil
}

type stubCounter struct {
	total int
	saved int
	err   error
}

func (c *stubCounter) CountByUserID(_ context.Context, _ uuid.UUID) (int, error) {
	return c.total, c.err
}

func (c *stubCounter) CountSavedByUserID(_ context.Context, _ uuid.UUID) (int, error) {
	return c.saved, c.err
}

func TestEnsureUser(t *testing.T) {
	t.Run("provisions on first contact", func(t *testing.T) {
		store := newMockUserStore()
		provider := &stubIdentityProvider{profile: &auth.Profile{
			Email:     "ada@example.com",
			Username:  "ada",
			FirstName: "Ada",
			LastName:  "Lovelace",
		}}
		svc := NewUserService(WithUserStore(store), WithIdentityProvider(provider))

		result, err := svc.EnsureUser(context.Background(), EnsureUserRequest{ClerkUserID: "user_1"})
		assert.NoError(t, err)
		assert.True(t, result.Created)
		assert.Equal(t, "ada", result.User.Username)
		assert.Equal(t, "user_1", result.User.ClerkUserID)
		assert.NotEqual(t, uuid.Nil, result.User.ID)
	})

	t.Run("second call returns the same mirror", func(t *testing.T) {
		store := newMockUserStore()
		provider := &stubIdentityProvider{profile: &auth.Profile{Email: "ada@example.com", Username: "ada"}}
		svc := NewUserService(WithUserStore(store), WithIdentityProvider(provider))

		first, err := svc.EnsureUser(context.Background(), EnsureUserRequest{ClerkUserID: "user_1"})
		assert.NoError(t, err)

		second, err := svc.EnsureUser(context.Background(), EnsureUserRequest{ClerkUserID: "user_1"})
		assert.NoError(t, err)
		assert.False(t, second.Created)
		assert.Equal(t, first.User.ID, second.User.ID)
		assert.Equal(t, 1, provider.calls)
	})

	t.Run("username falls back to email local-part", func(t *testing.T) {
		store := newMockUserStore()
		provider := &stubIdentityProvider{profile: &auth.Profile{Email: "grace.hopper@example.com"}}
		svc := NewUserService(WithUserStore(store), WithIdentityProvider(provider))

		result, err := svc.EnsureUser(context.Background(), EnsureUserRequest{ClerkUserID: "user_2"})
		assert.NoError(t, err)
		assert.Equal(t, "grace.hopper", result.User.Username)
	})

	t.Run("missing provider profile", func(t *testing.T) {
		store := newMockUserStore()
		provider := &stubIdentityProvider{err: auth.ErrProfileNotFound}
		svc := NewUserService(WithUserStore(store), WithIdentityProvider(provider))

		_, err := svc.EnsureUser(context.Background(), EnsureUserRequest{ClerkUserID: "user_3"})
		assert.ErrorIs(t, err, ErrProfileMissing)
	})

	t.Run("provider outage", func(t *testing.T) {
		store := newMockUserStore()
		provider := &stubIdentityProvider{err: errors.New("connection refused")}
		svc := NewUserService(WithUserStore(store), WithIdentityProvider(provider))

		_, err := svc.EnsureUser(context.Background(), EnsureUserRequest{ClerkUserID: "user_4"})
		assert.ErrorIs(t, err, ErrProvisionFailed)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("existing mirror", func(t *testing.T) {
		store := newMockUserStore()
		store.users["user_1"] = &models.User{ID: uuid.New(), ClerkUserID: "user_1", Email: "ada@example.com"}
		svc := NewUserService(WithUserStore(store))

		result, err := svc.GetUser(context.Background(), GetUserRequest{ClerkUserID: "user_1"})
		assert.NoError(t, err)
		assert.Equal(t, "ada@example.com", result.User.Email)
	})

	t.Run("absent mirror", func(t *testing.T) {
		svc := NewUserService(WithUserStore(newMockUserStore()))

		_, err := svc.GetUser(context.Background(), GetUserRequest{ClerkUserID: "nobody"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestStats(t *testing.T) {
	newStatsService := func(palettes, typographies, components *stubCounter) (*UserService, *mockUserStore) {
		store := newMockUserStore()
		store.users["user_1"] = &models.User{ID: uuid.New(), ClerkUserID: "user_1"}
		svc := NewUserService(
			WithUserStore(store),
			WithPaletteCounter(palettes),
			WithTypographyCounter(typographies),
			WithComponentCounter(components),
		)
		return svc, store
	}

	t.Run("aggregates all six counters", func(t *testing.T) {
		svc, _ := newStatsService(
			&stubCounter{total: 3, saved: 1},
			&stubCounter{total: 2, saved: 0},
			&stubCounter{total: 5, saved: 4},
		)

		result, err := svc.Stats(context.Background(), StatsRequest{ClerkUserID: "user_1"})
		assert.NoError(t, err)
		assert.Equal(t, 3, result.GeneratedPaletteSystems)
		assert.Equal(t, 1, result.SavedPaletteSystems)
		assert.Equal(t, 2, result.GeneratedTypographySystems)
		assert.Equal(t, 0, result.SavedTypographySystems)
		assert.Equal(t, 5, result.GeneratedComponentSystems)
		assert.Equal(t, 4, result.SavedComponentSystems)
	})

	t.Run("one failing counter fails the request", func(t *testing.T) {
		svc, _ := newStatsService(
			&stubCounter{total: 3, saved: 1},
			&stubCounter{err: errors.New("query canceled")},
			&stubCounter{total: 5, saved: 4},
		)

		_, err := svc.Stats(context.Background(), StatsRequest{ClerkUserID: "user_1"})
		assert.Error(t, err)
	})

	t.Run("absent mirror", func(t *testing.T) {
		svc, _ := newStatsService(&stubCounter{}, &stubCounter{}, &stubCounter{})

		_, err := svc.Stats(context.Background(), StatsRequest{ClerkUserID: "nobody"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
