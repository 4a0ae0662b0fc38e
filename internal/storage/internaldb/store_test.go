package internaldb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JasperZhi/hk-ipo-engine/internal/common"
	"github.com/JasperZhi/hk-ipo-engine/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndGetUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := &models.InternalUser{
		UserID:       "user-1",
		Email:        "analyst@example.com",
		PasswordHash: "hash",
		Role:         models.RoleMember,
	}
	require.NoError(t, store.SaveUser(ctx, user))

	got, err := store.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "analyst@example.com", got.Email)
	assert.Equal(t, models.RoleMember, got.Role)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.ModifiedAt.IsZero())
}

func TestGetUserNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetUser(context.Background(), "missing")
	assert.Error(t, err)
}

func TestSaveUserPreservesCreatedAt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	user := &models.InternalUser{UserID: "user-1", Email: "a@example.com", CreatedAt: created}
	require.NoError(t, store.SaveUser(ctx, user))

	update := &models.InternalUser{UserID: "user-1", Email: "b@example.com"}
	require.NoError(t, store.SaveUser(ctx, update))

	got, err := store.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", got.Email)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.ModifiedAt.After(created))
}

func TestGetUserByEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, &models.InternalUser{
		UserID: "user-1",
		Email:  "analyst@example.com",
	}))

	got, err := store.GetUserByEmail(ctx, "analyst@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)

	_, err = store.GetUserByEmail(ctx, "nobody@example.com")
	assert.Error(t, err)
}

func TestGetOrCreateUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("creates member profile on first call", func(t *testing.T) {
		user, err := store.GetOrCreateUser(ctx, "user-1", "analyst@example.com")
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.UserID)
		assert.Equal(t, models.RoleMember, user.Role)
	})

	t.Run("returns the existing profile afterwards", func(t *testing.T) {
		// Promote the user out of band, then confirm the promotion survives
		existing, err := store.GetUser(ctx, "user-1")
		require.NoError(t, err)
		existing.Role = models.RoleAdmin
		require.NoError(t, store.SaveUser(ctx, existing))

		user, err := store.GetOrCreateUser(ctx, "user-1", "analyst@example.com")
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, user.Role)
	})
}

func TestSystemKV(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetSystemKV(ctx, "gemini_api_key")
	assert.Error(t, err)

	require.NoError(t, store.SetSystemKV(ctx, "gemini_api_key", "secret-1"))

	value, err := store.GetSystemKV(ctx, "gemini_api_key")
	require.NoError(t, err)
	assert.Equal(t, "secret-1", value)

	// Overwrite
	require.NoError(t, store.SetSystemKV(ctx, "gemini_api_key", "secret-2"))
	value, err = store.GetSystemKV(ctx, "gemini_api_key")
	require.NoError(t, err)
	assert.Equal(t, "secret-2", value)
}
