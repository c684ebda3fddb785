package ranking

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"fuzzy-rank/core/types"
)

// Summarize describes a score distribution. StdDev is the sample standard
// deviation and is 0 for fewer than two scores.
func Summarize(scores []float64) types.Summary {
	if len(scores) == 0 {
		return types.Summary{}
	}

	s := types.Summary{
		Count: len(scores),
		Mean:  stat.Mean(scores, nil),
		Min:   floats.Min(scores),
		Max:   floats.Max(scores),
	}
	if len(scores) > 1 {
		s.StdDev = stat.StdDev(scores, nil)
	}
	return s
}
