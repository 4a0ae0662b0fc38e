package searchlog

import (
	"context"
	"fmt"
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

func TestSaveSearchDefaults(t *testing.T) {
	store := newTestStore(t)

	record := &models.SearchRecord{CompanyName: "MegaRobot Inc.", StockCode: "02888"}
	require.NoError(t, store.SaveSearch(context.Background(), record))

	assert.NotEmpty(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())
}

func TestListRecentOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.SaveSearch(ctx, &models.SearchRecord{
			ID:          fmt.Sprintf("rec-%d", i),
			CompanyName: fmt.Sprintf("Company %d", i),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := store.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Most recent first
	assert.Equal(t, "Company 4", records[0].CompanyName)
	assert.Equal(t, "Company 3", records[1].CompanyName)
	assert.Equal(t, "Company 2", records[2].CompanyName)
}

func TestListRecentNoLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.SaveSearch(ctx, &models.SearchRecord{CompanyName: "X"}))
	}

	records, err := store.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestPruneOldRecords(t *testing.T) {
	if testing.Short() {
		t.Skip("prune test writes many records")
	}
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-24 * time.Hour)
	for i := 0; i < maxSearchRecords+20; i++ {
		require.NoError(t, store.SaveSearch(ctx, &models.SearchRecord{
			ID:          fmt.Sprintf("rec-%05d", i),
			CompanyName: "Company",
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		}))
	}

	records, err := store.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, maxSearchRecords)

	// The survivors are the newest ones
	assert.Equal(t, fmt.Sprintf("rec-%05d", maxSearchRecords+19), records[0].ID)
}
