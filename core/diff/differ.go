// Package diff compares two rankings record by record.
package diff

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"fuzzy-rank/core/types"
)

// ChangeType classifies how a record moved between rankings
type ChangeType int

const (
	ChangeAdded     ChangeType = iota // Only in the newer ranking
	ChangeRemoved                     // Only in the older ranking
	ChangeModified                    // Score or rank changed
	ChangeUnchanged                   // Same score and rank
)

// String returns the change type name
func (c ChangeType) String() string {
	switch c {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeModified:
		return "modified"
	case ChangeUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// MarshalText renders the change type by name in JSON
func (c ChangeType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a change type name
func (c *ChangeType) UnmarshalText(text []byte) error {
	for _, t := range []ChangeType{ChangeAdded, ChangeRemoved, ChangeModified, ChangeUnchanged} {
		if t.String() == string(text) {
			*c = t
			return nil
		}
	}
	return fmt.Errorf("unknown change type %q", text)
}

// RecordDiff describes one restaurant across two rankings
type RecordDiff struct {
	ID         string     `json:"id"`
	ChangeType ChangeType `json:"change"`

	ScoreBefore float64 `json:"score_before"`
	ScoreAfter  float64 `json:"score_after"`
	ScoreDelta  float64 `json:"score_delta"`

	// Ranks are 0 when the record was outside that ranking's results
	RankBefore int `json:"rank_before,omitempty"`
	RankAfter  int `json:"rank_after,omitempty"`
}

// RankMove is positive when the record moved up
func (d *RecordDiff) RankMove() int {
	if d.RankBefore == 0 || d.RankAfter == 0 {
		return 0
	}
	return d.RankBefore - d.RankAfter
}

// Result is the complete diff between two rankings
type Result struct {
	BeforeID string `json:"before_id"`
	AfterID  string `json:"after_id"`

	MeanBefore float64 `json:"mean_before"`
	MeanAfter  float64 `json:"mean_after"`
	MeanDelta  float64 `json:"mean_delta"`

	Added     []*RecordDiff `json:"added"`
	Removed   []*RecordDiff `json:"removed"`
	Changed   []*RecordDiff `json:"changed"`
	Unchanged []*RecordDiff `json:"unchanged"`
}

// Differ computes diffs between rankings
type Differ struct {
	// Scores closer than this are treated as equal
	Tolerance float64
}

// NewDiffer creates a new differ
func NewDiffer(tolerance float64) *Differ {
	if tolerance <= 0 {
		tolerance = 1e-9
	}
	return &Differ{Tolerance: tolerance}
}

// Diff compares the results of before and after. Only the records present
// in Results take part, so truncated rankings compare their top entries.
func (d *Differ) Diff(before, after *types.Ranking) *Result {
	result := &Result{
		BeforeID:   before.ID,
		AfterID:    after.ID,
		MeanBefore: before.Summary.Mean,
		MeanAfter:  after.Summary.Mean,
		MeanDelta:  after.Summary.Mean - before.Summary.Mean,
		Added:      []*RecordDiff{},
		Removed:    []*RecordDiff{},
		Changed:    []*RecordDiff{},
		Unchanged:  []*RecordDiff{},
	}

	beforeMap := index(before.Results)
	afterMap := index(after.Results)

	for id, a := range afterMap {
		b, existed := beforeMap[id]
		if !existed {
			result.Added = append(result.Added, &RecordDiff{
				ID:         id,
				ChangeType: ChangeAdded,
				ScoreAfter: a.Score,
				ScoreDelta: a.Score,
				RankAfter:  a.Rank,
			})
			continue
		}

		diff := &RecordDiff{
			ID:          id,
			ScoreBefore: b.Score,
			ScoreAfter:  a.Score,
			ScoreDelta:  a.Score - b.Score,
			RankBefore:  b.Rank,
			RankAfter:   a.Rank,
		}
		if math.Abs(diff.ScoreDelta) <= d.Tolerance && b.Rank == a.Rank {
			diff.ChangeType = ChangeUnchanged
			result.Unchanged = append(result.Unchanged, diff)
		} else {
			diff.ChangeType = ChangeModified
			result.Changed = append(result.Changed, diff)
		}
	}

	for id, b := range beforeMap {
		if _, exists := afterMap[id]; !exists {
			result.Removed = append(result.Removed, &RecordDiff{
				ID:          id,
				ChangeType:  ChangeRemoved,
				ScoreBefore: b.Score,
				ScoreDelta:  -b.Score,
				RankBefore:  b.Rank,
			})
		}
	}

	sortDiffs(result.Added)
	sortDiffs(result.Removed)
	sortDiffs(result.Changed)
	sortDiffs(result.Unchanged)

	return result
}

// first occurrence wins for duplicate IDs
func index(results []types.Result) map[string]types.Result {
	m := make(map[string]types.Result, len(results))
	for _, r := range results {
		if _, ok := m[r.ID]; !ok {
			m[r.ID] = r
		}
	}
	return m
}

func sortDiffs(diffs []*RecordDiff) {
	sort.Slice(diffs, func(i, j int) bool {
		return diffs[i].ID < diffs[j].ID
	})
}

// Summary provides a human-readable summary
func (r *Result) Summary() string {
	var b strings.Builder

	switch {
	case math.Abs(r.MeanDelta) < 1e-9:
		b.WriteString("No change in mean score\n")
	case r.MeanDelta < 0:
		fmt.Fprintf(&b, "Mean score decreased by %.2f\n", -r.MeanDelta)
	default:
		fmt.Fprintf(&b, "Mean score increased by %.2f\n", r.MeanDelta)
	}

	if n := len(r.Added); n > 0 {
		fmt.Fprintf(&b, "  + %d restaurants added\n", n)
	}
	if n := len(r.Removed); n > 0 {
		fmt.Fprintf(&b, "  - %d restaurants removed\n", n)
	}
	if n := len(r.Changed); n > 0 {
		fmt.Fprintf(&b, "  ~ %d restaurants changed\n", n)
	}

	return b.String()
}

// TopChanges returns the records with the largest score impact
func (r *Result) TopChanges(n int) []*RecordDiff {
	all := make([]*RecordDiff, 0, len(r.Added)+len(r.Removed)+len(r.Changed))
	all = append(all, r.Added...)
	all = append(all, r.Removed...)
	all = append(all, r.Changed...)

	sort.SliceStable(all, func(i, j int) bool {
		ai, aj := math.Abs(all[i].ScoreDelta), math.Abs(all[j].ScoreDelta)
		if ai != aj {
			return ai > aj
		}
		return all[i].ID < all[j].ID
	})

	if n > 0 && len(all) > n {
		all = all[:n]
	}
	return all
}
