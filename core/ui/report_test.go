package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"fuzzy-rank/core/diff"
	"fuzzy-rank/core/fuzzy"
	"fuzzy-rank/core/types"
)

func sampleRanking() *types.Ranking {
	return &types.Ranking{
		TopN: 5,
		Results: []types.Result{
			{Record: types.Record{ID: "R5", Service: 90, Price: decimal.NewFromInt(25000)}, Score: 65, Rank: 1},
			{Record: types.Record{ID: "R3", Service: 55.5, Price: decimal.RequireFromString("35000.5")}, Score: 45, Rank: 2},
		},
		Evaluated: 2,
		Summary:   types.Summary{Count: 2, Mean: 55, StdDev: 14.14, Min: 45, Max: 65},
	}
}

func TestFormatResult(t *testing.T) {
	r := sampleRanking()
	got := FormatResult(r.Results[0])
	want := "ID: R5, Servis: 90, Harga: 25000.00, Skor: 65.00"
	if got != want {
		t.Errorf("FormatResult() = %q, want %q", got, want)
	}
	got = FormatResult(r.Results[1])
	want = "ID: R3, Servis: 55.5, Harga: 35000.50, Skor: 45.00"
	if got != want {
		t.Errorf("FormatResult() = %q, want %q", got, want)
	}
}

func TestRankingTable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)
	w.Ranking(sampleRanking())

	out := buf.String()
	for _, want := range []string{"2 Restoran Terbaik", "Id Pelanggan", "Skor Kelayakan", "R5", "65.00", "mean 55.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("noColor writer emitted escape codes")
	}
}

func TestRankingListKeepsOrder(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, true).RankingList(sampleRanking())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID: R5") || !strings.HasPrefix(lines[1], "ID: R3") {
		t.Errorf("unexpected order: %v", lines)
	}
}

func TestEvaluationTrace(t *testing.T) {
	var buf bytes.Buffer
	ev := fuzzy.DefaultEngine.Evaluate(90, 25000)
	NewWriter(&buf, true).Evaluation(ev)

	out := buf.String()
	if !strings.Contains(out, "Skor Kelayakan: 65.00") {
		t.Errorf("missing score line:\n%s", out)
	}
	if !strings.Contains(out, "1.0000") {
		t.Errorf("missing full membership degree:\n%s", out)
	}
}

func TestDiffRendering(t *testing.T) {
	before := sampleRanking()
	after := sampleRanking()
	after.Results = append(after.Results, types.Result{Record: types.Record{ID: "R9"}, Score: 30, Rank: 3})
	after.Results[1].Score = 50

	var buf bytes.Buffer
	NewWriter(&buf, true).Diff(diff.NewDiffer(0).Diff(before, after))

	out := buf.String()
	for _, want := range []string{"Added (1)", "+ R9", "Changed (1)", "+5.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTableHandlesPercentInCells(t *testing.T) {
	var buf bytes.Buffer
	table := NewWriter(&buf, true).NewTable("Name")
	table.AddRow("100%")
	table.Render()
	if !strings.Contains(buf.String(), "100%") || strings.Contains(buf.String(), "%!") {
		t.Errorf("cell rendered incorrectly: %q", buf.String())
	}
}
