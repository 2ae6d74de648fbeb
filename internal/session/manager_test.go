package session_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/projetproduits/storefront/internal/errors"
	"github.com/projetproduits/storefront/internal/models"
	"github.com/projetproduits/storefront/internal/session"
	"github.com/projetproduits/storefront/internal/storage"
	"github.com/projetproduits/storefront/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, fake *testutils.FakeAuth) (*session.Manager, *storage.MemStore) {
	t.Helper()

	server := fake.Server()
	t.Cleanup(server.Close)

	store := storage.NewMemStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return session.NewManager(server.URL, 5*time.Second, store, logger), store
}

func seededAuth() *testutils.FakeAuth {
	fake := testutils.NewFakeAuth()
	fake.SeedUser(models.AuthUser{
		ID:       1,
		Username: "alice",
		Email:    "alice@example.com",
		Role:     models.RoleClient,
		Genre:    models.GenreFemme,
	}, "secret")

	return fake
}

func TestLogin(t *testing.T) {

	t.Run("Success - Tokens And User Persisted", func(t *testing.T) {
		// Arrange
		fake := seededAuth()
		manager, store := newManager(t, fake)

		// Act
		result, err := manager.Login(context.Background(), "alice", "secret")

		// Assert
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "alice", result.User.Username)
		assert.True(t, manager.IsAuthenticated())
		assert.NotEmpty(t, manager.AccessToken())

		token, ok, err := store.Get(storage.KeyAccessToken)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, manager.AccessToken(), token)

		_, ok, err = store.Get(storage.KeyRefreshToken)
		require.NoError(t, err)
		assert.True(t, ok)

		encodedUser, ok, err := store.Get(storage.KeyUser)
		require.NoError(t, err)
		require.True(t, ok)

		var user models.AuthUser
		require.NoError(t, json.Unmarshal([]byte(encodedUser), &user))
		assert.Equal(t, models.GenreFemme, user.Genre)
	})

	t.Run("Failure - Wrong Password Is A Result Not An Error", func(t *testing.T) {
		// Arrange
		fake := seededAuth()
		manager, store := newManager(t, fake)

		// Act
		result, err := manager.Login(context.Background(), "alice", "wrong")

		// Assert
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Invalid username or password", result.Message)
		assert.False(t, manager.IsAuthenticated())
		assert.Empty(t, manager.AccessToken())

		_, ok, err := store.Get(storage.KeyAccessToken)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Failure - Missing Credentials Rejected Locally", func(t *testing.T) {
		// Arrange
		fake := seededAuth()
		manager, _ := newManager(t, fake)

		// Act
		_, err := manager.Login(context.Background(), "alice", "")

		// Assert
		appErr, ok := errors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	})

	t.Run("Failure - Unreachable Auth Service Propagates", func(t *testing.T) {
		// Arrange
		store := storage.NewMemStore()
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		manager := session.NewManager("http://127.0.0.1:1", time.Second, store, logger)

		// Act
		_, err := manager.Login(context.Background(), "alice", "secret")

		// Assert
		appErr, ok := errors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeServiceUnavailable, appErr.Code)
		assert.Equal(t, session.StateAnonymous, manager.State())
	})
}

func TestRegister(t *testing.T) {

	t.Run("Success - New Account Is Immediately Authenticated", func(t *testing.T) {
		// Arrange
		fake := testutils.NewFakeAuth()
		manager, _ := newManager(t, fake)

		// Act
		result, err := manager.Register(context.Background(), "bob", "bob@example.com", "hunter22", models.GenreHomme)

		// Assert
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, models.RoleClient, result.User.Role)
		assert.True(t, manager.IsAuthenticated())
	})

	t.Run("Failure - Taken Username Is A Result", func(t *testing.T) {
		// Arrange
		fake := seededAuth()
		manager, _ := newManager(t, fake)

		// Act
		result, err := manager.Register(context.Background(), "alice", "other@example.com", "hunter22", models.GenreFemme)

		// Assert
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Username already taken", result.Message)
	})

	t.Run("Failure - Invalid Genre Rejected Locally", func(t *testing.T) {
		// Arrange
		fake := testutils.NewFakeAuth()
		manager, _ := newManager(t, fake)

		// Act
		_, err := manager.Register(context.Background(), "bob", "bob@example.com", "hunter22", models.Genre("AUTRE"))

		// Assert
		appErr, ok := errors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	})
}

func TestLogout(t *testing.T) {

	t.Run("Success - Clears Local State And Calls Server", func(t *testing.T) {
		// Arrange
		fake := seededAuth()
		manager, store := newManager(t, fake)

		_, err := manager.Login(context.Background(), "alice", "secret")
		require.NoError(t, err)

		// Act
		manager.Logout(context.Background())

		// Assert
		assert.False(t, manager.IsAuthenticated())
		assert.Empty(t, manager.AccessToken())
		assert.Equal(t, 1, fake.LogoutCalls)

		_, ok, err := store.Get(storage.KeyAccessToken)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Success - Server Failure Still Clears Locally", func(t *testing.T) {
		// Arrange
		fake := seededAuth()
		fake.FailLogout = true
		manager, store := newManager(t, fake)

		_, err := manager.Login(context.Background(), "alice", "secret")
		require.NoError(t, err)

		// Act
		manager.Logout(context.Background())

		// Assert
		assert.False(t, manager.IsAuthenticated())
		assert.Equal(t, 1, fake.LogoutCalls)

		_, ok, err := store.Get(storage.KeyUser)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestValidate(t *testing.T) {

	t.Run("Success - Live Token", func(t *testing.T) {
		// Arrange
		fake := seededAuth()
		manager, _ := newManager(t, fake)

		_, err := manager.Login(context.Background(), "alice", "secret")
		require.NoError(t, err)

		// Act & Assert
		assert.True(t, manager.Validate(context.Background()))
		assert.True(t, manager.IsAuthenticated())
	})

	t.Run("Failure - Rejected Token Demotes To Anonymous", func(t *testing.T) {
		// Arrange
		fake := seededAuth()
		manager, store := newManager(t, fake)

		_, err := manager.Login(context.Background(), "alice", "secret")
		require.NoError(t, err)

		fake.RejectValidate = true

		// Act
		ok := manager.Validate(context.Background())

		// Assert
		assert.False(t, ok)
		assert.False(t, manager.IsAuthenticated())

		_, stored, err := store.Get(storage.KeyAccessToken)
		require.NoError(t, err)
		assert.False(t, stored)
	})

	t.Run("Failure - No Token", func(t *testing.T) {
		// Arrange
		fake := seededAuth()
		manager, _ := newManager(t, fake)

		// Act & Assert
		assert.False(t, manager.Validate(context.Background()))
	})
}

func TestRefresh(t *testing.T) {

	t.Run("Success - Rotates Both Tokens", func(t *testing.T) {
		// Arrange
		fake := seededAuth()
		manager, store := newManager(t, fake)

		_, err := manager.Login(context.Background(), "alice", "secret")
		require.NoError(t, err)

		before := manager.AccessToken()

		// Act
		err = manager.Refresh(context.Background())

		// Assert
		require.NoError(t, err)
		assert.NotEqual(t, before, manager.AccessToken())

		token, ok, err := store.Get(storage.KeyAccessToken)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, manager.AccessToken(), token)
	})

	t.Run("Failure - No Refresh Token Available", func(t *testing.T) {
		// Arrange
		fake := seededAuth()
		manager, _ := newManager(t, fake)

		// Act
		err := manager.Refresh(context.Background())

		// Assert
		appErr, ok := errors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeBadRequest, appErr.Code)
		assert.Equal(t, "No refresh token available", appErr.Message)
	})
}

func TestRestore(t *testing.T) {

	t.Run("Success - Rehydrates From Storage And Revalidates", func(t *testing.T) {
		// Arrange: a prior session left its keys behind
		fake := seededAuth()
		first, store := newManager(t, fake)

		_, err := first.Login(context.Background(), "alice", "secret")
		require.NoError(t, err)

		// A fresh manager against the same auth service and storage.
		restored, _ := newManagerSharingStore(t, fake, store)

		// Act
		ok := restored.Restore(context.Background())

		// Assert
		assert.True(t, ok)
		assert.True(t, restored.IsAuthenticated())
		require.NotNil(t, restored.CurrentUser())
		assert.Equal(t, "alice", restored.CurrentUser().Username)
	})

	t.Run("Failure - Empty Storage", func(t *testing.T) {
		// Arrange
		fake := seededAuth()
		manager, _ := newManager(t, fake)

		// Act & Assert
		assert.False(t, manager.Restore(context.Background()))
	})

	t.Run("Failure - Corrupt Stored User Clears Session", func(t *testing.T) {
		// Arrange
		fake := seededAuth()
		manager, store := newManager(t, fake)

		require.NoError(t, store.Set(storage.KeyAccessToken, "stale-token"))
		require.NoError(t, store.Set(storage.KeyUser, "{not json"))

		// Act
		ok := manager.Restore(context.Background())

		// Assert
		assert.False(t, ok)

		_, stored, err := store.Get(storage.KeyAccessToken)
		require.NoError(t, err)
		assert.False(t, stored)
	})
}

func newManagerSharingStore(t *testing.T, fake *testutils.FakeAuth, store storage.Store) (*session.Manager, storage.Store) {
	t.Helper()

	server := fake.Server()
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return session.NewManager(server.URL, 5*time.Second, store, logger), store
}
