package ui

import (
	"fmt"
	"strconv"
	"time"

	"fuzzy-rank/core/diff"
	"fuzzy-rank/core/explanation"
	"fuzzy-rank/core/fuzzy"
	"fuzzy-rank/core/types"
)

// Column headers shared with the spreadsheet output
var rankingHeaders = []string{"#", "Id Pelanggan", "Kualitas Servis", "Harga", "Skor Kelayakan"}

// Ranking renders a ranking as a table followed by its summary
func (w *Writer) Ranking(r *types.Ranking) {
	title := "Peringkat Restoran"
	if r.TopN > 0 {
		title = fmt.Sprintf("%d Restoran Terbaik", len(r.Results))
	}
	w.Header(title)

	if len(r.Results) == 0 {
		w.Warning("no restaurants could be evaluated")
	} else {
		table := w.NewTable(rankingHeaders...)
		for _, res := range r.Results {
			table.AddRow(
				strconv.Itoa(res.Rank),
				res.ID,
				formatService(res.Service),
				res.Price.StringFixed(2),
				fmt.Sprintf("%.2f", res.Score),
			)
		}
		table.Render()
	}

	w.Line("")
	w.RankingSummary(r)
}

// RankingList prints one line per result in the classic list format
func (w *Writer) RankingList(r *types.Ranking) {
	for _, res := range r.Results {
		w.Line(FormatResult(res))
	}
}

// FormatResult renders a result as "ID: .., Servis: .., Harga: .., Skor: .."
func FormatResult(res types.Result) string {
	return fmt.Sprintf("ID: %s, Servis: %s, Harga: %s, Skor: %.2f",
		res.ID, formatService(res.Service), res.Price.StringFixed(2), res.Score)
}

func formatService(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RankingSummary prints counts and score statistics
func (w *Writer) RankingSummary(r *types.Ranking) {
	s := r.Summary
	w.Line(w.color(Dim, fmt.Sprintf("  Evaluated: %d", r.Evaluated)))
	if s.Count > 0 {
		w.Line(w.color(Dim, fmt.Sprintf("  Score: mean %.2f, std dev %.2f, min %.2f, max %.2f",
			s.Mean, s.StdDev, s.Min, s.Max)))
	}
	if len(r.Skipped) > 0 {
		w.Warning("%d rows skipped", len(r.Skipped))
		for _, e := range r.Skipped {
			w.Debug("%s", e.Error())
		}
	}
	if r.ID != "" {
		w.Debug("run %s (input %s)", r.ID, shortHash(r.InputHash))
	}
}

// Trace prints the fuzzy pipeline for every result carrying an evaluation
func (w *Writer) Trace(r *types.Ranking) {
	for _, res := range r.Results {
		if res.Evaluation == nil {
			continue
		}
		w.SubHeader(res.ID)
		w.Line(explanation.Explain(res.ID, res.Service, res.PriceFloat(), *res.Evaluation).ToNarrative())
		w.Evaluation(*res.Evaluation)
	}
}

// Evaluation prints membership degrees, output degrees and the score
func (w *Writer) Evaluation(ev fuzzy.Evaluation) {
	table := w.NewTable("Variable", "Term", "Degree")
	for _, t := range fuzzy.ServiceTerms {
		table.AddRow("pelayanan", t.Label(), formatDegree(ev.Service.Get(t)))
	}
	for _, t := range fuzzy.PriceTerms {
		table.AddRow("harga", t.Label(), formatDegree(ev.Price.Get(t)))
	}
	for _, t := range fuzzy.OutputTerms {
		table.AddRow("kelayakan", t.Label(), formatDegree(ev.Output.Get(t)))
	}
	table.Render()
	w.Line(w.color(Bold, fmt.Sprintf("Skor Kelayakan: %.2f", ev.Score)))
	w.Line("")
}

// Rules prints the firing strength of every rule
func (w *Writer) Rules(firings []fuzzy.Firing) {
	table := w.NewTable("Pelayanan", "Harga", "Kelayakan", "Strength")
	for _, f := range firings {
		table.AddRow(f.Service.Label(), f.Price.Label(), f.Output.Label(), formatDegree(f.Strength))
	}
	table.Render()
}

func formatDegree(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// History lists stored rankings
func (w *Writer) History(rankings []*types.Ranking) {
	if len(rankings) == 0 {
		w.Info("no stored rankings")
		return
	}
	table := w.NewTable("ID", "Input", "Evaluated", "Mean", "Created")
	for _, r := range rankings {
		table.AddRow(
			r.ID,
			r.Input.Name,
			strconv.Itoa(r.Evaluated),
			fmt.Sprintf("%.2f", r.Summary.Mean),
			r.CreatedAt.Local().Format(time.RFC3339),
		)
	}
	table.Render()
}

// Diff renders the comparison of two rankings
func (w *Writer) Diff(d *diff.Result) {
	w.Header("Ranking Changes")

	if len(d.Added) > 0 {
		w.SubHeader(fmt.Sprintf("Added (%d)", len(d.Added)))
		for _, item := range d.Added {
			w.Line(w.color(Green, "+ ") + fmt.Sprintf("%s: %.2f (#%d)", item.ID, item.ScoreAfter, item.RankAfter))
		}
		w.Line("")
	}

	if len(d.Removed) > 0 {
		w.SubHeader(fmt.Sprintf("Removed (%d)", len(d.Removed)))
		for _, item := range d.Removed {
			w.Line(w.color(Red, "- ") + fmt.Sprintf("%s: %.2f (#%d)", item.ID, item.ScoreBefore, item.RankBefore))
		}
		w.Line("")
	}

	if len(d.Changed) > 0 {
		w.SubHeader(fmt.Sprintf("Changed (%d)", len(d.Changed)))
		for _, item := range d.Changed {
			arrow := w.color(Yellow, "→")
			change := fmt.Sprintf("%+.2f", item.ScoreDelta)
			if item.ScoreDelta < 0 {
				change = w.color(Red, change)
			} else {
				change = w.color(Green, change)
			}
			w.Line(fmt.Sprintf("  %s: %.2f %s %.2f (%s, #%d %s #%d)",
				item.ID, item.ScoreBefore, arrow, item.ScoreAfter, change, item.RankBefore, arrow, item.RankAfter))
		}
		w.Line("")
	}

	w.Line(w.color(Dim, "────────────────────────────────────────"))
	w.Print("%s", d.Summary())
}
