package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JasperZhi/hk-ipo-engine/internal/common"
	"github.com/JasperZhi/hk-ipo-engine/internal/models"
)

func TestManagerLifecycle(t *testing.T) {
	dir := t.TempDir()
	config := common.NewDefaultConfig()
	config.Storage.Internal.Path = filepath.Join(dir, "internal")
	config.Storage.Searches.Path = filepath.Join(dir, "searches")

	manager, err := NewManager(common.NewSilentLogger(), config)
	require.NoError(t, err)

	ctx := context.Background()

	// Both areas are live and independent
	require.NoError(t, manager.InternalStore().SetSystemKV(ctx, "gemini_api_key", "k"))
	require.NoError(t, manager.SearchLogStore().SaveSearch(ctx, &models.SearchRecord{
		CompanyName: "MegaRobot Inc.",
	}))

	value, err := manager.InternalStore().GetSystemKV(ctx, "gemini_api_key")
	require.NoError(t, err)
	assert.Equal(t, "k", value)

	records, err := manager.SearchLogStore().ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	require.NoError(t, manager.Close())

	// Reopen against the same paths to confirm persistence
	manager, err = NewManager(common.NewSilentLogger(), config)
	require.NoError(t, err)
	defer manager.Close()

	value, err = manager.InternalStore().GetSystemKV(ctx, "gemini_api_key")
	require.NoError(t, err)
	assert.Equal(t, "k", value)
}
