// Package cmd - rank command
package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fuzzy-rank/adapters/tabular"
	"fuzzy-rank/core/fuzzy"
	"fuzzy-rank/core/ranking"
	"fuzzy-rank/core/types"
	"fuzzy-rank/internal/config"
	"fuzzy-rank/internal/errors"
	"fuzzy-rank/internal/logging"
)

// defaultInput is the spreadsheet read when no path is given
const defaultInput = "restoran.xlsx"

var (
	rankOutput  string
	rankTop     int
	rankWorkers int
	rankTrace   bool
	rankStore   bool
	rankFormat  string
	rankSheet   string
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank [input]",
	Short: "Rank the restaurants in a spreadsheet",
	Long: `Read restaurants from an .xlsx or .csv file, score every row and write
the best ones to an output file.

The input needs the columns "id Pelanggan", "Pelayanan" and "harga"
(configurable under input). Rows that cannot be parsed are reported and
skipped.

Examples:
  fuzzy-rank rank
  fuzzy-rank rank data.xlsx --top 10
  fuzzy-rank rank data.csv --output hasil.csv --format json
  fuzzy-rank rank data.xlsx --output "" --trace`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringVarP(&rankOutput, "output", "o", "", `output file, .xlsx or .csv; "" skips writing (default from config: peringkat.xlsx)`)
	rankCmd.Flags().IntVarP(&rankTop, "top", "n", -1, "number of restaurants to keep, 0 keeps all (default from config: 5)")
	rankCmd.Flags().IntVar(&rankWorkers, "workers", -1, "concurrent evaluations, 0 means one per CPU")
	rankCmd.Flags().BoolVar(&rankTrace, "trace", false, "show membership degrees for every ranked restaurant")
	rankCmd.Flags().BoolVar(&rankStore, "store", false, "save the ranking in the configured storage backend")
	rankCmd.Flags().StringVarP(&rankFormat, "format", "f", "", "terminal output format (table, list, json)")
	rankCmd.Flags().StringVar(&rankSheet, "sheet", "", "xlsx sheet to read (default: first sheet)")
}

func runRank(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Get()
	log := logging.Named("cli")

	path := defaultInput
	if len(args) > 0 {
		path = args[0]
	}

	topN := cfg.Engine.TopN
	if cmd.Flags().Changed("top") {
		if rankTop < 0 {
			return errors.Newf(errors.TypeInput, "--top must be >= 0, got %d", rankTop)
		}
		topN = rankTop
	}

	opts := inputOptions(cfg)
	if rankSheet != "" {
		opts.Sheet = rankSheet
	}

	source, err := tabular.Open(path, opts)
	if err != nil {
		return err
	}
	records, skipped, err := source.Read(ctx)
	if err != nil {
		return err
	}
	log.Debug("read input", zap.String("path", path), zap.Int("records", len(records)), zap.Int("skipped", len(skipped)))

	workers := cfg.Engine.Workers
	if cmd.Flags().Changed("workers") {
		workers = rankWorkers
	}

	ranker := ranking.NewRanker(fuzzy.NewEngine(cfg.Domain()), ranking.Options{
		Workers: workers,
		TopN:    topN,
		Trace:   rankTrace || cfg.Output.ShowTrace,
	})

	format, _ := tabular.FormatFromName(path)
	input := types.InputMetadata{Source: types.SourceCLI, Name: filepath.Base(path), Format: string(format)}
	result, err := ranker.Rank(ctx, input, records, skipped)
	if err != nil {
		return err
	}

	output := cfg.Output.Path
	if cmd.Flags().Changed("output") {
		output = rankOutput
	}
	if output != "" {
		sink, err := tabular.Create(output)
		if err != nil {
			return err
		}
		if err := sink.Write(ctx, result); err != nil {
			return err
		}
	}

	if rankStore {
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(ctx, result); err != nil {
			return err
		}
	}

	outFormat := cfg.Output.Format
	if rankFormat != "" {
		outFormat = rankFormat
	}
	return printRanking(cmd, result, outFormat, output)
}

func printRanking(cmd *cobra.Command, result *types.Ranking, format, output string) error {
	w := newWriter(cmd)

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "list":
		if output != "" {
			w.Line(fmt.Sprintf("Hasil peringkat %d restoran terbaik telah disimpan ke '%s'", len(result.Results), output))
			w.Line("")
		}
		w.Line(fmt.Sprintf("Daftar %d restoran terbaik:", len(result.Results)))
		w.RankingList(result)
	case "table", "":
		w.Ranking(result)
		if output != "" {
			w.Line("")
			w.Success("ranking saved to %s", output)
		}
	default:
		return errors.Newf(errors.TypeInput, "unknown format %q (use table, list or json)", format)
	}

	if len(result.Results) > 0 && result.Results[0].Evaluation != nil {
		w.Line("")
		w.Trace(result)
	}
	return nil
}
