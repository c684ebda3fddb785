package types

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fuzzy-rank/core/fuzzy"
)

// Record is one restaurant row to be evaluated
type Record struct {
	// ID identifies the restaurant (the "id Pelanggan" column)
	ID string `json:"id"`

	// Service is the service quality score, nominally 0-100
	Service float64 `json:"service"`

	// Price is the price in currency units
	Price decimal.Decimal `json:"price"`

	// Row is the 1-based source row, 0 when not from a table
	Row int `json:"row,omitempty"`
}

// PriceFloat returns the price as the fuzzifier consumes it
func (r Record) PriceFloat() float64 {
	return r.Price.InexactFloat64()
}

// Result is an evaluated record
type Result struct {
	Record

	// Score is the suitability score in [0,100]
	Score float64 `json:"score"`

	// Rank is the 1-based position after sorting
	Rank int `json:"rank,omitempty"`

	// Evaluation is the full fuzzy trace when requested
	Evaluation *fuzzy.Evaluation `json:"evaluation,omitempty"`
}

// RowError records a row that could not be turned into a Record
type RowError struct {
	Row     int    `json:"row"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("row %d (%s): %s", e.Row, e.ID, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Unwrap returns the underlying cause
func (e RowError) Unwrap() error {
	return e.Err
}
