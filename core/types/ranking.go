package types

import "time"

// Summary describes the score distribution of a batch
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Ranking is the outcome of evaluating a batch of records
type Ranking struct {
	// ID uniquely identifies this run
	ID string `json:"id"`

	// Input describes where the records came from
	Input InputMetadata `json:"input"`

	// InputHash is a content hash of the evaluated records
	InputHash string `json:"input_hash"`

	// TopN is the truncation applied to Results, 0 for none
	TopN int `json:"top_n"`

	// Results are sorted by score descending and truncated to TopN
	Results []Result `json:"results"`

	// Evaluated counts every record that was scored
	Evaluated int `json:"evaluated"`

	// Skipped lists rows that could not be evaluated
	Skipped []RowError `json:"skipped,omitempty"`

	// Summary covers all evaluated records, not only Results
	Summary Summary `json:"summary"`

	// CreatedAt is when the ranking finished
	CreatedAt time.Time `json:"created_at"`
}
