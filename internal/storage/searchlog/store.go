// Package searchlog implements the append-only analysis request log using
// BadgerHold.
package searchlog

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"

	"github.com/JasperZhi/hk-ipo-engine/internal/common"
	"github.com/JasperZhi/hk-ipo-engine/internal/models"
)

// maxSearchRecords bounds the retained log. The admin view only aggregates
// over a recent window, so older records are pruned on write.
const maxSearchRecords = 500

// Store implements interfaces.SearchLogStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore creates a new SearchLogStore backed by BadgerHold.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create search log path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open search log at %s: %w", path, err)
	}
	logger.Debug().Str("path", path).Msg("Search log opened")
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) SaveSearch(_ context.Context, record *models.SearchRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	if err := s.db.Upsert(record.ID, record); err != nil {
		return fmt.Errorf("failed to save search record: %w", err)
	}
	s.logger.Debug().Str("id", record.ID).Str("company", record.CompanyName).Msg("Search record saved")

	s.pruneOldRecords()

	return nil
}

// pruneOldRecords drops the oldest records beyond the retention limit.
func (s *Store) pruneOldRecords() {
	var records []models.SearchRecord
	if err := s.db.Find(&records, nil); err != nil || len(records) <= maxSearchRecords {
		return
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	for _, old := range records[maxSearchRecords:] {
		s.db.Delete(old.ID, models.SearchRecord{})
	}
	s.logger.Debug().Int("pruned", len(records)-maxSearchRecords).Msg("Pruned old search records")
}

func (s *Store) ListRecent(_ context.Context, limit int) ([]*models.SearchRecord, error) {
	var records []models.SearchRecord
	if err := s.db.Find(&records, nil); err != nil {
		return nil, fmt.Errorf("failed to list search records: %w", err)
	}

	// Most recent first
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	result := make([]*models.SearchRecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
