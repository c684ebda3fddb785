package fuzzy

import "math"

// rules maps every (service, price) combination to its consequent.
// Indexed [ServiceTerm][PriceTerm]; never mutated.
var rules = [len(ServiceTerms)][len(PriceTerms)]OutputTerm{
	ServiceLow:    {PriceCheap: Poor, PriceMedium: Poor, PriceExpensive: Poor},
	ServiceMedium: {PriceCheap: Fair, PriceMedium: Good, PriceExpensive: Fair},
	ServiceHigh:   {PriceCheap: Good, PriceMedium: VeryGood, PriceExpensive: Good},
}

// Consequent returns the output term the rule table assigns to a pair.
// Terms outside the table map to Poor.
func Consequent(s ServiceTerm, p PriceTerm) OutputTerm {
	if s < 0 || int(s) >= len(rules) || p < 0 || int(p) >= len(rules[s]) {
		return Poor
	}
	return rules[s][p]
}

// Firing is the strength one rule fired with
type Firing struct {
	Service  ServiceTerm `json:"service"`
	Price    PriceTerm   `json:"price"`
	Output   OutputTerm  `json:"output"`
	Strength float64     `json:"strength"`
}

// Infer applies the rule table with min as AND and max as aggregation
func Infer(s ServiceDegrees, p PriceDegrees) OutputDegrees {
	var out OutputDegrees
	for _, f := range Fire(s, p) {
		out[f.Output] = math.Max(out[f.Output], f.Strength)
	}
	return out
}

// Fire returns the firing strength of all nine rules in table order
func Fire(s ServiceDegrees, p PriceDegrees) []Firing {
	firings := make([]Firing, 0, len(ServiceTerms)*len(PriceTerms))
	for _, st := range ServiceTerms {
		for _, pt := range PriceTerms {
			firings = append(firings, Firing{
				Service:  st,
				Price:    pt,
				Output:   rules[st][pt],
				Strength: math.Min(s[st], p[pt]),
			})
		}
	}
	return firings
}
