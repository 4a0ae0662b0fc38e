// Package storage coordinates the storage backends.
package storage

import (
	"fmt"

	"github.com/JasperZhi/hk-ipo-engine/internal/common"
	"github.com/JasperZhi/hk-ipo-engine/internal/interfaces"
	"github.com/JasperZhi/hk-ipo-engine/internal/storage/internaldb"
	"github.com/JasperZhi/hk-ipo-engine/internal/storage/searchlog"
)

// Manager aggregates the storage areas behind interfaces.StorageManager.
type Manager struct {
	internal  interfaces.InternalStore
	searchLog interfaces.SearchLogStore
	logger    *common.Logger
}

// NewManager opens all storage areas from config.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	internal, err := internaldb.NewStore(logger, config.Storage.Internal.Path)
	if err != nil {
		return nil, fmt.Errorf("open internal store: %w", err)
	}

	searches, err := searchlog.NewStore(logger, config.Storage.Searches.Path)
	if err != nil {
		internal.Close()
		return nil, fmt.Errorf("open search log: %w", err)
	}

	return &Manager{
		internal:  internal,
		searchLog: searches,
		logger:    logger,
	}, nil
}

// InternalStore returns the user accounts + system KV store.
func (m *Manager) InternalStore() interfaces.InternalStore {
	return m.internal
}

// SearchLogStore returns the search log store.
func (m *Manager) SearchLogStore() interfaces.SearchLogStore {
	return m.searchLog
}

// Close closes all storage areas, returning the first error encountered.
func (m *Manager) Close() error {
	var firstErr error
	if err := m.internal.Close(); err != nil {
		firstErr = err
	}
	if err := m.searchLog.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Ensure Manager implements StorageManager
var _ interfaces.StorageManager = (*Manager)(nil)
