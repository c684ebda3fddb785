// Package cmd - evaluate command
package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fuzzy-rank/adapters/tabular"
	"fuzzy-rank/core/explanation"
	"fuzzy-rank/core/fuzzy"
	"fuzzy-rank/internal/config"
)

var (
	evalService float64
	evalPrice   string
	evalJSON    bool
)

// evaluateCmd scores a single restaurant
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score one restaurant and show the inference steps",
	Long: `Score a single (service, price) pair and print the membership degrees,
the strength of every rule and the resulting suitability score.

Examples:
  fuzzy-rank evaluate --service 90 --price 25000
  fuzzy-rank evaluate --service 55 --price "Rp 35,000" --json`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().Float64VarP(&evalService, "service", "s", 0, "service quality score (0-100)")
	evaluateCmd.Flags().StringVarP(&evalPrice, "price", "p", "", "price")
	evaluateCmd.Flags().BoolVar(&evalJSON, "json", false, "print the evaluation as JSON")
	_ = evaluateCmd.MarkFlagRequired("service")
	_ = evaluateCmd.MarkFlagRequired("price")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	price, err := tabular.ParsePrice(evalPrice)
	if err != nil {
		return fmt.Errorf("invalid --price %q: %w", evalPrice, err)
	}

	engine := fuzzy.NewEngine(config.Get().Domain())
	ev := engine.Evaluate(evalService, price.InexactFloat64())

	if evalJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Service    float64          `json:"service"`
			Price      string           `json:"price"`
			Evaluation fuzzy.Evaluation `json:"evaluation"`
			Rules      []fuzzy.Firing   `json:"rules"`
			Narrative  string           `json:"narrative"`
		}{evalService, price.String(), ev, fuzzy.Fire(ev.Service, ev.Price),
			explanation.Explain("", evalService, price.InexactFloat64(), ev).ToNarrative()})
	}

	w := newWriter(cmd)
	w.Header(fmt.Sprintf("Servis %s, Harga %s", formatFloat(evalService), price.StringFixed(2)))
	w.SubHeader("Rules")
	w.Rules(fuzzy.Fire(ev.Service, ev.Price))
	w.Line("")
	w.SubHeader("Membership")
	w.Evaluation(ev)
	w.Line(explanation.Explain("", evalService, price.InexactFloat64(), ev).ToNarrative())
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
