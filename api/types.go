// Package api - HTTP types for restaurant evaluation
// These types define the contract of the /v1 endpoints.
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"fuzzy-rank/core/fuzzy"
	"fuzzy-rank/core/types"
)

// EvaluateRequest is the input to POST /v1/evaluate
type EvaluateRequest struct {
	// ID is echoed back, optional
	ID string `json:"id,omitempty"`

	// Service is the service quality score, nominally 0-100
	Service *float64 `json:"service"`

	// Price accepts a JSON number or a numeric string
	Price *decimal.Decimal `json:"price"`

	// Trace includes membership degrees and rule firings
	Trace bool `json:"trace,omitempty"`
}

// EvaluateResponse is the output of POST /v1/evaluate
type EvaluateResponse struct {
	ID      string          `json:"id,omitempty"`
	Service float64         `json:"service"`
	Price   decimal.Decimal `json:"price"`
	Score   float64         `json:"score"`

	// Evaluation and Rules are set when a trace was requested
	Evaluation *fuzzy.Evaluation `json:"evaluation,omitempty"`
	Rules      []fuzzy.Firing    `json:"rules,omitempty"`
	Narrative  string            `json:"narrative,omitempty"`
}

// RecordInput is one restaurant in a rank request
type RecordInput struct {
	ID      string           `json:"id"`
	Service *float64         `json:"service"`
	Price   *decimal.Decimal `json:"price"`
}

// RankRequest is the input to POST /v1/rank
type RankRequest struct {
	// Name labels the batch in stored history
	Name string `json:"name,omitempty"`

	Records []RecordInput `json:"records"`

	// TopN truncates the ranking; nil uses the server default, 0 keeps all
	TopN *int `json:"top_n,omitempty"`

	Trace bool `json:"trace,omitempty"`
}

// RankingSummary is a stored ranking without its results
type RankingSummary struct {
	ID        string              `json:"id"`
	Input     types.InputMetadata `json:"input"`
	InputHash string              `json:"input_hash"`
	Evaluated int                 `json:"evaluated"`
	Skipped   int                 `json:"skipped"`
	Summary   types.Summary       `json:"summary"`
	CreatedAt time.Time           `json:"created_at"`
}

// ListResponse is the output of GET /v1/rankings
type ListResponse struct {
	Rankings []RankingSummary `json:"rankings"`
	Count    int              `json:"count"`
}

// ErrorBody describes a failed request
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps every error the API returns
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func summarize(r *types.Ranking) RankingSummary {
	return RankingSummary{
		ID:        r.ID,
		Input:     r.Input,
		InputHash: r.InputHash,
		Evaluated: r.Evaluated,
		Skipped:   len(r.Skipped),
		Summary:   r.Summary,
		CreatedAt: r.CreatedAt,
	}
}
