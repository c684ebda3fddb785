// Package explanation - Score explanation
// Exposes WHY a restaurant got its score: the inputs, the rules that fired
// and the output term that dominated.
package explanation

import (
	"encoding/json"
	"fmt"
	"strings"

	"fuzzy-rank/core/determinism"
	"fuzzy-rank/core/fuzzy"
)

// ScoreExplanation provides full transparency for one evaluation
type ScoreExplanation struct {
	// Identity
	ID    string  `json:"id,omitempty"`
	Score float64 `json:"score"`

	// Crisp inputs
	Inputs []Input `json:"inputs"`

	// Rules with a non-zero firing strength, strongest first
	Rules []fuzzy.Firing `json:"rules"`

	// Dominant is the output term with the highest degree
	Dominant fuzzy.OutputTerm `json:"dominant"`

	// NoRuleFired is set when every rule has zero strength
	NoRuleFired bool `json:"no_rule_fired,omitempty"`
}

// Input represents a crisp input and the terms it belongs to
type Input struct {
	Name    string             `json:"name"`
	Value   string             `json:"value"`
	Degrees map[string]float64 `json:"degrees"`
}

// Explain builds the explanation of an evaluation
func Explain(id string, service, price float64, ev fuzzy.Evaluation) *ScoreExplanation {
	e := &ScoreExplanation{
		ID:    id,
		Score: ev.Score,
		Inputs: []Input{
			{Name: "service", Value: formatValue(service), Degrees: ev.Service.Map()},
			{Name: "price", Value: formatValue(price), Degrees: ev.Price.Map()},
		},
		Rules: []fuzzy.Firing{},
	}

	for _, f := range fuzzy.Fire(ev.Service, ev.Price) {
		if f.Strength > 0 {
			e.Rules = append(e.Rules, f)
		}
	}
	// ties keep rule-table order
	determinism.SortSlice(e.Rules, func(a, b fuzzy.Firing) bool {
		return a.Strength > b.Strength
	})

	if len(e.Rules) == 0 {
		e.NoRuleFired = true
		return e
	}

	for _, t := range fuzzy.OutputTerms {
		if ev.Output.Get(t) > ev.Output.Get(e.Dominant) {
			e.Dominant = t
		}
	}
	return e
}

// ToJSON returns JSON representation
func (e *ScoreExplanation) ToJSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// ToNarrative returns a human-readable narrative
func (e *ScoreExplanation) ToNarrative() string {
	subject := "The restaurant"
	if e.ID != "" {
		subject = e.ID
	}

	if e.NoRuleFired {
		return fmt.Sprintf("%s scores %.2f because no rule fired for these inputs", subject, e.Score)
	}

	top := e.Rules[0]
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s scores %.2f (mostly %s): service is %s and price is %s (strength %.2f)",
		subject, e.Score, e.Dominant, top.Service, top.Price, top.Strength))

	if len(e.Rules) > 1 {
		others := make([]string, 0, len(e.Rules)-1)
		for _, f := range e.Rules[1:] {
			others = append(others, fmt.Sprintf("%s/%s → %s %.2f", f.Service, f.Price, f.Output, f.Strength))
		}
		sb.WriteString("; also ")
		sb.WriteString(strings.Join(others, ", "))
	}
	return sb.String()
}

func formatValue(v float64) string {
	return fmt.Sprintf("%g", v)
}
