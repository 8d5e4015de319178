package cli

import (
	"github.com/spf13/cobra"

	"github.com/graphsnap/graphsnap/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Flatten an exported snapshot into a CSV table",
	Long: `Report reads a snapshot file produced by 'graphsnap fetch' and writes a
flat CSV with one row per email or calendar event, including sender,
recipients, date, and a short summary.`,
	RunE: runReport,
}

// Flags for report.
var (
	reportInput  string
	reportOutput string
)

func init() {
	reportCmd.Flags().StringVarP(&reportInput, "input", "i", "outlook_data.json", "Path to the snapshot file")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "outlook_data_processed.csv", "Path for the CSV output")
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, _ []string) error {
	return report.Process(reportInput, reportOutput)
}
