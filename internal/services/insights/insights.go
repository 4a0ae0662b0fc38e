// Package insights computes operational summaries over the search log.
package insights

import (
	"context"
	"fmt"
	"sort"

	"github.com/JasperZhi/hk-ipo-engine/internal/common"
	"github.com/JasperZhi/hk-ipo-engine/internal/interfaces"
	"github.com/JasperZhi/hk-ipo-engine/internal/models"
)

// DefaultWindow is the recent-search window the admin view aggregates over.
const DefaultWindow = 100

// Service implements InsightsService
type Service struct {
	searches interfaces.SearchLogStore
	logger   *common.Logger
}

// NewService creates a new insights service
func NewService(searches interfaces.SearchLogStore, logger *common.Logger) *Service {
	return &Service{
		searches: searches,
		logger:   logger,
	}
}

// TopSearches returns the n most frequent searches within the most recent
// window of log records.
func (s *Service) TopSearches(ctx context.Context, window, n int) ([]models.SearchCount, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	records, err := s.searches.ListRecent(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("list recent searches: %w", err)
	}
	return TopSearchCounts(records, n), nil
}

// TopSearchCounts is the pure aggregation: records are keyed by
// "CompanyName (StockCode)" with a "?" placeholder for a missing code,
// counted, and ranked by descending count. Ties keep the first-encountered
// order of the input sequence.
func TopSearchCounts(records []*models.SearchRecord, n int) []models.SearchCount {
	counts := make(map[string]int, len(records))
	order := make([]string, 0, len(records))

	for _, r := range records {
		code := r.StockCode
		if code == "" {
			code = "?"
		}
		key := fmt.Sprintf("%s (%s)", r.CompanyName, code)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	result := make([]models.SearchCount, 0, len(order))
	for _, key := range order {
		result = append(result, models.SearchCount{Key: key, Count: counts[key]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	if n >= 0 && len(result) > n {
		result = result[:n]
	}
	return result
}

// Ensure Service implements InsightsService
var _ interfaces.InsightsService = (*Service)(nil)
