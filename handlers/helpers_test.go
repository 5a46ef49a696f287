package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"hueforge-backend/auth"
	"hueforge-backend/handlers"
	"hueforge-backend/llm"
	"hueforge-backend/models"
	"hueforge-backend/repository"
	"hueforge-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubVerifier accepts any bearer token and maps it straight to a subject.
// Token "token-user_1" authenticates as "user_1".
type stubVerifier struct{}

func (stubVerifier) VerifyToken(_ context.Context, token string) (string, error) {
	subject, ok := strings.CutPrefix(token, "token-")
	if !ok || subject == "" {
		return "", auth.ErrInvalidToken
	}
	return subject, nil
}

type stubProvider struct {
	profiles map[string]*auth.Profile
}

func (p *stubProvider) GetUser(_ context.Context, clerkUserID string) (*auth.Profile, error) {
	profile, ok := p.profiles[clerkUserID]
	if !ok {
		return nil, auth.ErrProfileNotFound
	}
	return profile, nil
}

type stubClient struct {
	reply string
	err   error
}

func (c *stubClient) Complete(_ context.Context, _ llm.Request) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

// In-memory stores backing the services under test.

type memUserStore struct {
	users map[string]*models.User
}

func (m *memUserStore) GetByClerkID(_ context.Context, clerkUserID string) (*models.User, error) {
	user, ok := m.users[clerkUserID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	stored := *user
	return &stored, nil
}

func (m *memUserStore) CreateIfAbsent(_ context.Context, user *models.User) (bool, error) {
	if existing, ok := m.users[user.ClerkUserID]; ok {
		*user = *existing
		return false, nil
	}
	user.ID = uuid.New()
	stored := *user
	m.users[user.ClerkUserID] = &stored
	return true, nil
}

type memPaletteStore struct {
	palettes map[uuid.UUID]*models.Palette
}

func (m *memPaletteStore) Create(_ context.Context, palette *models.Palette) error {
	for _, p := range m.palettes {
		if p.UserID == palette.UserID && p.Colors == palette.Colors {
			return repository.ErrDuplicatePalette
		}
	}
	palette.ID = uuid.New()
	stored := *palette
	m.palettes[palette.ID] = &stored
	return nil
}

func (m *memPaletteStore) FindByUserAndColors(_ context.Context, userID uuid.UUID, colors string) (*models.Palette, error) {
	for _, p := range m.palettes {
		if p.UserID == userID && p.Colors == colors {
			found := *p
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memPaletteStore) GetByID(_ context.Context, id uuid.UUID) (*models.Palette, error) {
	p, ok := m.palettes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *p
	return &found, nil
}

func (m *memPaletteStore) ListSavedByUserID(_ context.Context, userID uuid.UUID) ([]*models.Palette, error) {
	var result []*models.Palette
	for _, p := range m.palettes {
		if p.UserID == userID && p.IsSaved {
			found := *p
			result = append(result, &found)
		}
	}
	return result, nil
}

func (m *memPaletteStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.palettes[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.palettes, id)
	return nil
}

func (m *memPaletteStore) CountByUserID(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, p := range m.palettes {
		if p.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *memPaletteStore) CountSavedByUserID(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, p := range m.palettes {
		if p.UserID == userID && p.IsSaved {
			count++
		}
	}
	return count, nil
}

type memTypographyStore struct {
	typographies map[uuid.UUID]*models.Typography
}

func (m *memTypographyStore) Create(_ context.Context, typography *models.Typography) error {
	typography.ID = uuid.New()
	stored := *typography
	m.typographies[typography.ID] = &stored
	return nil
}

func (m *memTypographyStore) GetByID(_ context.Context, id uuid.UUID) (*models.Typography, error) {
	ty, ok := m.typographies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *ty
	return &found, nil
}

func (m *memTypographyStore) ListByUserID(_ context.Context, userID uuid.UUID) ([]*models.Typography, error) {
	var result []*models.Typography
	for _, ty := range m.typographies {
		if ty.UserID == userID {
			found := *ty
			result = append(result, &found)
		}
	}
	return result, nil
}

func (m *memTypographyStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.typographies[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.typographies, id)
	return nil
}

func (m *memTypographyStore) CountByUserID(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, ty := range m.typographies {
		if ty.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *memTypographyStore) CountSavedByUserID(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, ty := range m.typographies {
		if ty.UserID == userID && ty.IsSaved {
			count++
		}
	}
	return count, nil
}

type memComponentStore struct {
	components map[uuid.UUID]*models.Component
}

func (m *memComponentStore) Create(_ context.Context, component *models.Component) error {
	component.ID = uuid.New()
	stored := *component
	m.components[component.ID] = &stored
	return nil
}

func (m *memComponentStore) GetByID(_ context.Context, id uuid.UUID) (*models.Component, error) {
	comp, ok := m.components[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *comp
	return &found, nil
}

func (m *memComponentStore) ListSavedByUserID(_ context.Context, userID uuid.UUID) ([]*models.Component, error) {
	var result []*models.Component
	for _, comp := range m.components {
		if comp.UserID == userID && comp.IsSaved {
			found := *comp
			result = append(result, &found)
		}
	}
	return result, nil
}

func (m *memComponentStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.components[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.components, id)
	return nil
}

func (m *memComponentStore) CountByUserID(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, comp := range m.components {
		if comp.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *memComponentStore) CountSavedByUserID(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, comp := range m.components {
		if comp.UserID == userID && comp.IsSaved {
			count++
		}
	}
	return count, nil
}

// testEnv wires the full router against in-memory stores, mirroring the
// route table the server binary registers.
type testEnv struct {
	router       *gin.Engine
	client       *stubClient
	provider     *stubProvider
	userStore    *memUserStore
	paletteStore *memPaletteStore
	typoStore    *memTypographyStore
	compStore    *memComponentStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		client: &stubClient{},
		provider: &stubProvider{profiles: map[string]*auth.Profile{
			"user_1": {Email: "ada@example.com", Username: "ada", FirstName: "Ada", LastName: "Lovelace"},
			"user_2": {Email: "grace@example.com", Username: "grace"},
		}},
		userStore:    &memUserStore{users: make(map[string]*models.User)},
		paletteStore: &memPaletteStore{palettes: make(map[uuid.UUID]*models.Palette)},
		typoStore:    &memTypographyStore{typographies: make(map[uuid.UUID]*models.Typography)},
		compStore:    &memComponentStore{components: make(map[uuid.UUID]*models.Component)},
	}

	generationService := service.NewGenerationService(service.WithCompletionClient(env.client))
	userService := service.NewUserService(
		service.WithUserStore(env.userStore),
		service.WithIdentityProvider(env.provider),
		service.WithPaletteCounter(env.paletteStore),
		service.WithTypographyCounter(env.typoStore),
		service.WithComponentCounter(env.compStore),
	)
	paletteService := service.NewPaletteService(
		service.WithPaletteStore(env.paletteStore),
		service.PaletteWithUserProvisioner(userService),
	)
	typographyService := service.NewTypographyService(
		service.WithTypographyStore(env.typoStore),
		service.TypographyWithUserProvisioner(userService),
	)
	componentService := service.NewComponentService(
		service.WithComponentStore(env.compStore),
		service.ComponentWithUserProvisioner(userService),
	)

	generateHandler := handlers.NewGenerateHandler(generationService)
	paletteHandler := handlers.NewPaletteHandler(paletteService)
	typographyHandler := handlers.NewTypographyHandler(typographyService)
	componentHandler := handlers.NewComponentHandler(componentService)
	userHandler := handlers.NewUserHandler(userService)

	verifier := stubVerifier{}
	r := gin.New()
	api := r.Group("/api")

	api.POST("/generate-palette", auth.OptionalAuth(verifier), generateHandler.GeneratePalette)
	api.POST("/generate-typography", auth.OptionalAuth(verifier), generateHandler.GenerateTypography)
	api.POST("/generate-component", auth.OptionalAuth(verifier), generateHandler.GenerateComponent)

	api.GET("/getIdByPalette/:paletteId", paletteHandler.GetPaletteByID)
	api.GET("/getIdByTypography/:typographyId", typographyHandler.GetTypographyByID)
	api.GET("/getById/:componentId", componentHandler.GetComponentByID)

	authed := api.Group("", auth.RequireAuth(verifier))
	authed.POST("/save-palette", paletteHandler.SavePalette)
	authed.DELETE("/save-palette", paletteHandler.DeletePalette)
	authed.GET("/get-palette", paletteHandler.GetPalettes)
	authed.POST("/saved-typography", typographyHandler.SaveTypography)
	authed.DELETE("/saved-typography", typographyHandler.DeleteTypography)
	authed.GET("/get-typography", typographyHandler.GetTypographies)
	authed.POST("/saved-component", componentHandler.SaveComponent)
	authed.DELETE("/saved-component", componentHandler.DeleteComponent)
	authed.GET("/get-components", componentHandler.GetComponents)
	authed.POST("/users", userHandler.CreateUser)
	authed.GET("/users-generated-systems", userHandler.GetGeneratedSystems)

	env.router = r
	return env
}

// do performs a request as the given subject. An empty subject sends no
// Authorization header.
func (env *testEnv) do(t *testing.T, method, path, subject string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if subject != "" {
		req.Header.Set("Authorization", "Bearer token-"+subject)
	}

	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}
