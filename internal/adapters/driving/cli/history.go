package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/graphsnap/graphsnap/internal/adapters/driven/config/file"
	"github.com/graphsnap/graphsnap/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent snapshot runs",
	Long:  `History lists recent runs recorded in the local run-history database. Requires history.enabled = true in the config.`,
	RunE:  runHistory,
}

// Flags for history.
var (
	historyConfigPath string
	historyLimit      int
)

func init() {
	historyCmd.Flags().StringVar(&historyConfigPath, "config", "", "Path to config file (default ~/.graphsnap/config.toml)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := file.Load(historyConfigPath)
	if err != nil {
		return err
	}

	if !cfg.History.Enabled {
		return fmt.Errorf("run history is disabled; set history.enabled = true in the config")
	}

	store, err := history.NewStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %s  inbox=%d sent=%d calendar=%d  %s\n",
			run.StartedAt.Local().Format(time.DateTime),
			run.ID[:8],
			run.InboxCount, run.SentCount, run.CalendarCount,
			run.OutputPath)
	}
	return nil
}
