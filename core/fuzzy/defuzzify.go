package fuzzy

import "math"

// Domain is the sampled output universe used for centroid defuzzification
type Domain struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// DefaultDomain samples the integers 0..100 (101 points)
var DefaultDomain = Domain{Min: 0, Max: 100, Step: 1}

// Samples returns the number of sample points in the domain
func (d Domain) Samples() int {
	return int(math.Floor((d.Max-d.Min)/d.Step+1e-9)) + 1
}

// At returns the k-th sample point
func (d Domain) At(k int) float64 {
	return d.Min + float64(k)*d.Step
}

// Valid reports whether the domain can be sampled
func (d Domain) Valid() bool {
	return d.Step > 0 && d.Max >= d.Min &&
		!math.IsInf(d.Min, 0) && !math.IsInf(d.Max, 0) && !math.IsNaN(d.Step)
}

// Shape returns the unclipped membership of s in an output term
func Shape(t OutputTerm, s float64) float64 {
	switch t {
	case Poor:
		return math.Max(0, 1-s/50)
	case Fair:
		return math.Max(0, math.Min(s/30, (80-s)/30))
	case Good:
		return math.Max(0, math.Min((s-40)/30, (90-s)/30))
	case VeryGood:
		return math.Max(0, (s-70)/30)
	}
	return 0
}

// Sample is one point of the aggregated output set
type Sample struct {
	X      float64 `json:"x"`
	Degree float64 `json:"degree"`
}

// Defuzzifier reduces output degrees to a crisp score over a Domain
type Defuzzifier struct {
	domain Domain
}

// NewDefuzzifier creates a defuzzifier. An invalid domain falls back to
// DefaultDomain.
func NewDefuzzifier(d Domain) *Defuzzifier {
	if !d.Valid() {
		d = DefaultDomain
	}
	return &Defuzzifier{domain: d}
}

// Domain returns the sampled domain
func (z *Defuzzifier) Domain() Domain {
	return z.domain
}

// aggregate returns the max over terms of each term's shape clipped at its degree
func aggregate(o OutputDegrees, s float64) float64 {
	a := 0.0
	for _, t := range OutputTerms {
		a = math.Max(a, math.Min(o[t], Shape(t, s)))
	}
	return a
}

// Aggregate returns the aggregated output set at every sample point
func (z *Defuzzifier) Aggregate(o OutputDegrees) []Sample {
	n := z.domain.Samples()
	samples := make([]Sample, n)
	for k := 0; k < n; k++ {
		s := z.domain.At(k)
		samples[k] = Sample{X: s, Degree: aggregate(o, s)}
	}
	return samples
}

// Defuzzify returns the centroid of the aggregated set, or 0 when the set
// has no area.
func (z *Defuzzifier) Defuzzify(o OutputDegrees) float64 {
	var num, den float64
	n := z.domain.Samples()
	for k := 0; k < n; k++ {
		s := z.domain.At(k)
		a := aggregate(o, s)
		num += s * a
		den += a
	}
	if den == 0 {
		return 0
	}
	return num / den
}

var defaultDefuzzifier = NewDefuzzifier(DefaultDomain)

// Defuzzify runs centroid defuzzification over DefaultDomain
func Defuzzify(o OutputDegrees) float64 {
	return defaultDefuzzifier.Defuzzify(o)
}
