package diff

import (
	"testing"

	"fuzzy-rank/core/types"
)

func ranking(id string, mean float64, results ...types.Result) *types.Ranking {
	return &types.Ranking{
		ID:      id,
		Results: results,
		Summary: types.Summary{Mean: mean},
	}
}

func result(id string, score float64, rank int) types.Result {
	return types.Result{Record: types.Record{ID: id}, Score: score, Rank: rank}
}

func TestDiffClassifiesRecords(t *testing.T) {
	before := ranking("a", 50,
		result("R1", 80, 1),
		result("R2", 60, 2),
		result("R3", 40, 3),
	)
	after := ranking("b", 55,
		result("R2", 70, 1),
		result("R1", 65, 2),
		result("R4", 30, 3),
	)

	d := NewDiffer(0).Diff(before, after)

	if len(d.Added) != 1 || d.Added[0].ID != "R4" {
		t.Errorf("added = %+v, want R4", d.Added)
	}
	if len(d.Removed) != 1 || d.Removed[0].ID != "R3" {
		t.Errorf("removed = %+v, want R3", d.Removed)
	}
	if len(d.Changed) != 2 {
		t.Fatalf("changed = %d, want 2", len(d.Changed))
	}
	if d.Changed[0].ID != "R1" || d.Changed[1].ID != "R2" {
		t.Errorf("changed not sorted by id: %s, %s", d.Changed[0].ID, d.Changed[1].ID)
	}
	if got := d.Changed[1].RankMove(); got != 1 {
		t.Errorf("R2 rank move = %d, want 1", got)
	}
	if got := d.Changed[0].ScoreDelta; got != -15 {
		t.Errorf("R1 score delta = %v, want -15", got)
	}
	if d.MeanDelta != 5 {
		t.Errorf("mean delta = %v, want 5", d.MeanDelta)
	}
}

func TestDiffUnchanged(t *testing.T) {
	r := ranking("a", 65, result("R1", 65, 1))
	d := NewDiffer(0).Diff(r, r)

	if len(d.Unchanged) != 1 || len(d.Changed) != 0 {
		t.Fatalf("expected one unchanged record, got %+v", d)
	}
	if d.Summary() != "No change in mean score\n" {
		t.Errorf("unexpected summary %q", d.Summary())
	}
}

func TestTopChanges(t *testing.T) {
	before := ranking("a", 0, result("R1", 10, 1), result("R2", 50, 2))
	after := ranking("b", 0, result("R1", 12, 2), result("R2", 90, 1), result("R3", 20, 3))

	top := NewDiffer(0).Diff(before, after).TopChanges(2)
	if len(top) != 2 {
		t.Fatalf("got %d changes, want 2", len(top))
	}
	if top[0].ID != "R2" || top[1].ID != "R3" {
		t.Errorf("top changes = %s, %s; want R2, R3", top[0].ID, top[1].ID)
	}
}

func TestChangeTypeString(t *testing.T) {
	tests := map[ChangeType]string{
		ChangeAdded:     "added",
		ChangeRemoved:   "removed",
		ChangeModified:  "modified",
		ChangeUnchanged: "unchanged",
		ChangeType(99):  "unknown",
	}
	for c, want := range tests {
		if got := c.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", c, got, want)
		}
	}
}
