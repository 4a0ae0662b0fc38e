package models

import "time"

// SearchRecord is one logged analysis request.
type SearchRecord struct {
	ID          string    `json:"id" badgerhold:"key"`
	CompanyName string    `json:"company_name"`
	StockCode   string    `json:"stock_code"`
	UserID      string    `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at" badgerhold:"index"`
}

// SearchCount is one row of the frequency-ranked search summary.
type SearchCount struct {
	Key   string `json:"key"` // "CompanyName (StockCode)"
	Count int    `json:"count"`
}
