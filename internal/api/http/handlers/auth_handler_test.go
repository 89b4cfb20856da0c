package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/api/http"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/api/http/handlers"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/auth"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/config"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/domain"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/service"
)

type memUserRepo struct {
	users map[string]*domain.User
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	copied.Roles = append([]string(nil), user.Roles...)
	return &copied, nil
}

func (m *memUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := m.users[user.Email]; !ok {
		return pgx.ErrNoRows
	}
	m.users[user.Email] = user
	return nil
}

type memSessionStore struct {
	entries map[string]domain.Session
	nextID  int
}

func (m *memSessionStore) key(userID, sessionID string) string { return userID + ":" + sessionID }

func (m *memSessionStore) NewIdentifier() string {
	m.nextID++
	return fmt.Sprintf("sess-%d", m.nextID)
}

func (m *memSessionStore) Create(_ context.Context, sess domain.Session, _ time.Duration) error {
	m.entries[m.key(sess.UserID, sess.SessionID)] = sess
	return nil
}

func (m *memSessionStore) Invalidate(_ context.Context, userID, sessionID string) (bool, error) {
	key := m.key(userID, sessionID)
	if _, ok := m.entries[key]; !ok {
		return false, nil
	}
	delete(m.entries, key)
	return true, nil
}

func (m *memSessionStore) Get(_ context.Context, userID, sessionID string) (*domain.Session, error) {
	sess, ok := m.entries[m.key(userID, sessionID)]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

type envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func newTestApp(t *testing.T) (*fiber.App, *auth.TokenManager, *memSessionStore) {
	t.Helper()

	repo := &memUserRepo{users: map[string]*domain.User{
		"jane@example.com": {
			ID:         "u-1",
			Username:   "jane",
			Email:      "jane@example.com",
			FirstName:  "Jane",
			LastName:   "Doe",
			Roles:      []string{"MANAGER", "PM"},
			ActiveRole: "MANAGER",
		},
	}}
	store := &memSessionStore{entries: map[string]domain.Session{}}
	tokens := auth.NewTokenManager("test-secret", 30)
	logger := zap.NewNop()

	svc := service.NewRoleSwitchService(config.AuthConfig{AccessTokenTTLMinutes: 30, RolePrefix: "ROLE_"}, service.RoleSwitchDependencies{
		UserRepo:     repo,
		SessionStore: store,
		TokenManager: tokens,
		Logger:       logger,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, nil, 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Auth:           handlers.NewAuthHandler(svc),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, store, logger),
		Health:         handlers.NewHealthHandler("test", "dev", nil, nil),
	})
	return app, tokens, store
}

func switchRequest(token, role string) *http.Request {
	body, _ := json.Marshal(map[string]string{"requestedRole": role})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/switch-role", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestSwitchRoleEndpointSuccess(t *testing.T) {
	app, tokens, store := newTestApp(t)

	bearer, _, err := tokens.Issue("jane@example.com", []string{"MANAGER", "PM"}, "MANAGER", "abc")
	require.NoError(t, err)
	store.entries["jane@example.com:abc"] = domain.Session{
		UserID:    "jane@example.com",
		SessionID: "abc",
		Roles:     []string{"ROLE_MANAGER", "ROLE_PM"},
	}

	resp, err := app.Test(switchRequest(bearer, "pm"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, "success", env.Status)

	var data struct {
		Username   string   `json:"username"`
		ActiveRole string   `json:"activeRole"`
		Roles      []string `json:"roles"`
		Token      string   `json:"token"`
		Email      string   `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "jane", data.Username)
	assert.Equal(t, "PM", data.ActiveRole)
	assert.Equal(t, []string{"MANAGER", "PM"}, data.Roles)
	assert.Equal(t, "jane@example.com", data.Email)
	assert.NotEmpty(t, data.Token)

	// Old session invalidated by the switch.
	_, stillThere := store.entries["jane@example.com:abc"]
	assert.False(t, stillThere)
}

func TestSwitchRoleEndpointPermissionDenied(t *testing.T) {
	app, tokens, _ := newTestApp(t)

	bearer, _, err := tokens.Issue("jane@example.com", []string{"MANAGER", "PM"}, "MANAGER", "")
	require.NoError(t, err)

	resp, err := app.Test(switchRequest(bearer, "ADMIN"))
	require.NoError(t, err)

	// Business failures come back as 200 envelopes with error status.
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "PERMISSION_DENIED", env.Errors["code"])
}

func TestSwitchRoleEndpointRequiresAuth(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(switchRequest("", "PM"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCurrentSessionEndpoint(t *testing.T) {
	app, tokens, store := newTestApp(t)

	bearer, _, err := tokens.Issue("jane@example.com", []string{"MANAGER", "PM"}, "MANAGER", "abc")
	require.NoError(t, err)
	store.entries["jane@example.com:abc"] = domain.Session{
		UserID:    "jane@example.com",
		SessionID: "abc",
		Roles:     []string{"ROLE_MANAGER", "ROLE_PM"},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, "success", env.Status)

	var data struct {
		Email     string   `json:"email"`
		SessionID string   `json:"sessionId"`
		Roles     []string `json:"roles"`
		Kind      string   `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "jane@example.com", data.Email)
	assert.Equal(t, "abc", data.SessionID)
	assert.Equal(t, "enriched", data.Kind)
	assert.Equal(t, []string{"ROLE_MANAGER", "ROLE_PM"}, data.Roles)
}
