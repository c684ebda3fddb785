// Package cmd - history commands
package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"fuzzy-rank/adapters/storage"
	"fuzzy-rank/internal/config"
)

var (
	historyName  string
	historyLimit int
	historyJSON  bool
)

// historyCmd groups commands over stored rankings
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect stored rankings",
	Long: `Inspect rankings saved with "rank --store" or through the API.

Requires storage.backend to be memory, file, sqlite or postgres.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored rankings, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context(), config.Get())
		if err != nil {
			return err
		}
		defer store.Close()

		rankings, err := store.List(cmd.Context(), &storage.ListFilter{Name: historyName, Limit: historyLimit})
		if err != nil {
			return err
		}
		if historyJSON {
			return writeJSON(cmd, rankings)
		}
		newWriter(cmd).History(rankings)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored ranking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context(), config.Get())
		if err != nil {
			return err
		}
		defer store.Close()

		r, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if historyJSON {
			return writeJSON(cmd, r)
		}
		newWriter(cmd).Ranking(r)
		return nil
	},
}

var historyCompareCmd = &cobra.Command{
	Use:   "compare <before-id> <after-id>",
	Short: "Compare two stored rankings",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context(), config.Get())
		if err != nil {
			return err
		}
		defer store.Close()

		d, err := storage.Compare(cmd.Context(), store, args[0], args[1])
		if err != nil {
			return err
		}
		if historyJSON {
			return writeJSON(cmd, d)
		}
		newWriter(cmd).Diff(d)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored ranking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context(), config.Get())
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		newWriter(cmd).Success("deleted %s", args[0])
		return nil
	},
}

func init() {
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "print JSON")
	historyListCmd.Flags().StringVar(&historyName, "name", "", "only rankings of this input name")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum rankings to list, 0 for all")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCompareCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
