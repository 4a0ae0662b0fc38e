// Package interfaces defines service contracts for the IPO engine
package interfaces

import (
	"context"

	"github.com/JasperZhi/hk-ipo-engine/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	InternalStore() InternalStore
	SearchLogStore() SearchLogStore

	Close() error
}

// InternalStore manages user accounts and system-level KV.
type InternalStore interface {
	GetUser(ctx context.Context, userID string) (*models.InternalUser, error)
	GetUserByEmail(ctx context.Context, email string) (*models.InternalUser, error)
	SaveUser(ctx context.Context, user *models.InternalUser) error

	// GetOrCreateUser returns the existing user or creates an empty profile
	// in one upsert. Safe under concurrent first logins.
	GetOrCreateUser(ctx context.Context, userID, email string) (*models.InternalUser, error)

	// System key-value (non-user-scoped)
	GetSystemKV(ctx context.Context, key string) (string, error)
	SetSystemKV(ctx context.Context, key, value string) error

	Close() error
}

// SearchLogStore is the append-only analysis request log.
type SearchLogStore interface {
	SaveSearch(ctx context.Context, record *models.SearchRecord) error

	// ListRecent returns up to limit records, most recent first.
	ListRecent(ctx context.Context, limit int) ([]*models.SearchRecord, error)

	Close() error
}
