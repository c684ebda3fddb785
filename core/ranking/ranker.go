// Package ranking - Batch evaluation and ordering of restaurant records
// Records are scored independently and concurrently, then sorted by score.
// Malformed rows never reach this package; they arrive as RowErrors and are
// carried through to the Ranking untouched.
package ranking

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fuzzy-rank/core/determinism"
	"fuzzy-rank/core/fuzzy"
	"fuzzy-rank/core/types"
	"fuzzy-rank/internal/logging"
)

// DefaultTopN is how many restaurants a ranking keeps unless told otherwise
const DefaultTopN = 5

// Options configures a Ranker
type Options struct {
	// Workers bounds concurrent evaluations, 0 means runtime.NumCPU()
	Workers int

	// TopN truncates the ranking, 0 keeps every record
	TopN int

	// Trace attaches the fuzzy trace to every result
	Trace bool
}

// Ranker evaluates and orders batches of records
type Ranker struct {
	engine  *fuzzy.Engine
	workers int
	topN    int
	trace   bool
	logger  *zap.Logger
}

// NewRanker creates a ranker. A nil engine uses fuzzy.DefaultEngine.
func NewRanker(engine *fuzzy.Engine, opts Options) *Ranker {
	if engine == nil {
		engine = fuzzy.DefaultEngine
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	topN := opts.TopN
	if topN < 0 {
		topN = 0
	}
	return &Ranker{
		engine:  engine,
		workers: workers,
		topN:    topN,
		trace:   opts.Trace,
		logger:  logging.Named("ranking"),
	}
}

// Evaluate scores a single record
func (r *Ranker) Evaluate(rec types.Record) types.Result {
	ev := r.engine.Evaluate(rec.Service, rec.PriceFloat())
	res := types.Result{Record: rec, Score: ev.Score}
	if r.trace {
		res.Evaluation = &ev
	}
	return res
}

// Rank scores every record, sorts by score descending (ties keep input
// order) and truncates to TopN. Cancelling ctx stops scheduling new records.
func (r *Ranker) Rank(ctx context.Context, input types.InputMetadata, records []types.Record, skipped []types.RowError) (*types.Ranking, error) {
	start := time.Now()

	results, err := r.evaluateAll(ctx, records)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, len(results))
	for i := range results {
		scores[i] = results[i].Score
	}

	determinism.SortSlice(results, func(a, b types.Result) bool {
		return a.Score > b.Score
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	if r.topN > 0 && len(results) > r.topN {
		results = results[:r.topN]
	}

	for _, rowErr := range skipped {
		r.logger.Warn("skipped row",
			zap.Int("row", rowErr.Row),
			zap.String("id", rowErr.ID),
			zap.String("reason", rowErr.Message))
	}

	ranking := &types.Ranking{
		ID:        uuid.New().String(),
		Input:     input,
		InputHash: determinism.HashRecords(records).Hex(),
		TopN:      r.topN,
		Results:   results,
		Evaluated: len(records),
		Skipped:   skipped,
		Summary:   Summarize(scores),
		CreatedAt: time.Now().UTC(),
	}

	r.logger.Info("ranking finished",
		zap.String("id", ranking.ID),
		zap.String("source", input.Source.String()),
		zap.Int("evaluated", ranking.Evaluated),
		zap.Int("skipped", len(skipped)),
		zap.Float64("mean", ranking.Summary.Mean),
		zap.Duration("duration", time.Since(start)))

	return ranking, nil
}

// evaluateAll scores records concurrently. Results are written by input
// index so the outcome does not depend on scheduling.
func (r *Ranker) evaluateAll(ctx context.Context, records []types.Record) ([]types.Result, error) {
	results := make([]types.Result, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i := range records {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.Evaluate(records[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
