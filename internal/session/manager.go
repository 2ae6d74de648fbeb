package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/projetproduits/storefront/internal/client"
	appErrors "github.com/projetproduits/storefront/internal/errors"
	"github.com/projetproduits/storefront/internal/models"
	"github.com/projetproduits/storefront/internal/storage"
)

type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

// Manager owns the authenticated identity and the bearer token pair.
// It is the only writer of the three storage keys; everything else
// reads the access token through AccessToken.
type Manager struct {
	mu           sync.Mutex
	auth         *client.AuthClient
	store        storage.Store
	logger       *slog.Logger
	validate     *validator.Validate
	state        State
	user         *models.AuthUser
	accessToken  string
	refreshToken string
}

func NewManager(authURL string, timeout time.Duration, store storage.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		store:    store,
		logger:   logger,
		validate: validator.New(),
		state:    StateAnonymous,
	}

	m.auth = client.NewAuthClient(authURL, timeout, m.AccessToken, logger)

	return m
}

// AccessToken is the TokenSource handed to every backend client.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.accessToken
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

func (m *Manager) CurrentUser() *models.AuthUser {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return nil
	}

	user := *m.user

	return &user
}

func (m *Manager) Login(ctx context.Context, username, password string) (*models.AuthResult, error) {

	req := &models.LoginRequest{Username: username, Password: password}
	if err := m.validate.Struct(req); err != nil {
		return nil, appErrors.ValidationError("Username and password are required").WithError(err)
	}

	m.setState(StateAuthenticating)

	payload, err := m.auth.Login(ctx, req)

	return m.finishAuth(payload, err)
}

func (m *Manager) Register(ctx context.Context, username, email, password string, genre models.Genre) (*models.AuthResult, error) {

	req := &models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
		Genre:    genre,
	}

	if err := m.validate.Struct(req); err != nil {
		return nil, appErrors.ValidationError("Invalid registration data").WithError(err)
	}

	m.setState(StateAuthenticating)

	payload, err := m.auth.Register(ctx, req)

	return m.finishAuth(payload, err)
}

// finishAuth maps an auth-service outcome onto the session state.
// Credential rejection is a result, not an error; only transport and
// unexpected failures propagate.
func (m *Manager) finishAuth(payload *models.AuthPayload, err error) (*models.AuthResult, error) {

	if err != nil {
		m.setState(StateAnonymous)

		if appErr, ok := appErrors.IsAppError(err); ok &&
			(appErr.Code == appErrors.ErrCodeUnauthorized || appErr.Code == appErrors.ErrCodeBadRequest) {
			return &models.AuthResult{Success: false, Message: appErr.Message}, nil
		}

		return nil, err
	}

	m.mu.Lock()
	user := payload.User
	m.user = &user
	m.accessToken = payload.AccessToken
	m.refreshToken = payload.RefreshToken
	m.state = StateAuthenticated
	m.mu.Unlock()

	m.persist(payload)

	m.logger.Info("Session established", slog.String("username", user.Username), slog.String("genre", string(user.Genre)))

	return &models.AuthResult{Success: true, User: &user}, nil
}

func (m *Manager) persist(payload *models.AuthPayload) {

	if err := m.store.Set(storage.KeyAccessToken, payload.AccessToken); err != nil {
		m.logger.Warn("Failed to persist access token", slog.String("error", err.Error()))
	}

	if err := m.store.Set(storage.KeyRefreshToken, payload.RefreshToken); err != nil {
		m.logger.Warn("Failed to persist refresh token", slog.String("error", err.Error()))
	}

	encoded, err := json.Marshal(payload.User)
	if err == nil {
		err = m.store.Set(storage.KeyUser, string(encoded))
	}

	if err != nil {
		m.logger.Warn("Failed to persist user", slog.String("error", err.Error()))
	}
}

// Logout invalidates the refresh token server-side on a best-effort
// basis; local state is cleared no matter what the server answers.
func (m *Manager) Logout(ctx context.Context) {

	m.mu.Lock()
	refreshToken := m.refreshToken
	m.mu.Unlock()

	if refreshToken != "" {
		if err := m.auth.Logout(ctx, refreshToken); err != nil {
			m.logger.Warn("Server-side logout failed", slog.String("error", err.Error()))
		}
	}

	m.clear()
}

// Validate checks the stored token against the server. Any failure,
// network or 401, demotes the session to anonymous.
func (m *Manager) Validate(ctx context.Context) bool {

	m.mu.Lock()
	token := m.accessToken
	m.mu.Unlock()

	if token == "" {
		m.clear()

		return false
	}

	if err := m.auth.Validate(ctx); err != nil {
		m.logger.Warn("Token validation failed", slog.String("error", err.Error()))
		m.clear()

		return false
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	m.mu.Unlock()

	return true
}

// Refresh exchanges the refresh token for a new access token.
func (m *Manager) Refresh(ctx context.Context) error {

	m.mu.Lock()
	refreshToken := m.refreshToken
	m.mu.Unlock()

	if refreshToken == "" {
		return appErrors.BadRequestError("No refresh token available")
	}

	payload, err := m.auth.Refresh(ctx, refreshToken)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.accessToken = payload.AccessToken
	if payload.RefreshToken != "" {
		m.refreshToken = payload.RefreshToken
	} else {
		payload.RefreshToken = m.refreshToken
	}
	if m.user != nil {
		payload.User = *m.user
	}
	m.mu.Unlock()

	m.persist(payload)

	return nil
}

// Restore seeds the session from local storage at startup, then
// confirms it with the server.
func (m *Manager) Restore(ctx context.Context) bool {

	token, hasToken, err := m.store.Get(storage.KeyAccessToken)
	if err != nil {
		m.logger.Warn("Failed to read stored access token", slog.String("error", err.Error()))

		return false
	}

	encodedUser, hasUser, err := m.store.Get(storage.KeyUser)
	if err != nil {
		m.logger.Warn("Failed to read stored user", slog.String("error", err.Error()))

		return false
	}

	if !hasToken || !hasUser {
		return false
	}

	var user models.AuthUser
	if err := json.Unmarshal([]byte(encodedUser), &user); err != nil {
		m.logger.Warn("Stored user is unreadable, clearing session", slog.String("error", err.Error()))
		m.clear()

		return false
	}

	refreshToken, _, err := m.store.Get(storage.KeyRefreshToken)
	if err != nil {
		m.logger.Warn("Failed to read stored refresh token", slog.String("error", err.Error()))
	}

	m.mu.Lock()
	m.user = &user
	m.accessToken = token
	m.refreshToken = refreshToken
	m.mu.Unlock()

	return m.Validate(ctx)
}

// TokenExpiresAt peeks at the unverified access-token claims. Signature
// verification belongs to the services; the client only schedules.
func (m *Manager) TokenExpiresAt() (time.Time, bool) {

	m.mu.Lock()
	token := m.accessToken
	m.mu.Unlock()

	if token == "" {
		return time.Time{}, false
	}

	claims := &models.Claims{}

	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}

	return claims.ExpiresAt.Time, true
}

func (m *Manager) clear() {

	if err := m.store.Clear(); err != nil {
		m.logger.Warn("Failed to clear stored session", slog.String("error", err.Error()))
	}

	m.mu.Lock()
	m.user = nil
	m.accessToken = ""
	m.refreshToken = ""
	m.state = StateAnonymous
	m.mu.Unlock()
}

func (m *Manager) setState(state State) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}
