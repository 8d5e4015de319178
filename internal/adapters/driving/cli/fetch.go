package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/graphsnap/graphsnap/internal/adapters/driven/config/file"
	"github.com/graphsnap/graphsnap/internal/connectors/microsoft"
	"github.com/graphsnap/graphsnap/internal/connectors/microsoft/calendar"
	"github.com/graphsnap/graphsnap/internal/connectors/microsoft/outlook"
	"github.com/graphsnap/graphsnap/internal/core/services"
	"github.com/graphsnap/graphsnap/internal/history"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Retrieve mail and calendar data and export the snapshot",
	Long: `Fetch authenticates once, retrieves inbox mail, sent mail, and calendar
events, and writes the merged snapshot to a JSON file.

The inbox can be filtered by a subject keyword:

  graphsnap fetch --keyword wisp -o outlook_data.json`,
	RunE: runFetch,
}

// Flags for fetch.
var (
	fetchConfigPath string
	fetchOutput     string
	fetchKeyword    string
)

func init() {
	fetchCmd.Flags().StringVar(&fetchConfigPath, "config", "", "Path to config file (default ~/.graphsnap/config.toml)")
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "Output path for the snapshot (overrides config)")
	fetchCmd.Flags().StringVarP(&fetchKeyword, "keyword", "k", "", "Inbox subject keyword filter (overrides config)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, _ []string) error {
	cfg, err := file.Load(fetchConfigPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("output") {
		cfg.Export.OutputPath = fetchOutput
	}
	if cmd.Flags().Changed("keyword") {
		cfg.Fetch.InboxKeyword = fetchKeyword
	}

	creds := cfg.Credentials()
	if creds.UsesPasswordGrant() && creds.Password == "" {
		password, err := promptPassword(fmt.Sprintf("Password for %s: ", creds.Username))
		if err != nil {
			return err
		}
		creds.Password = password
	}

	mail := outlook.New(
		microsoft.NewClient(microsoft.ServiceOutlook),
		outlook.NewConfig(cfg.Fetch.InboxKeyword, cfg.Fetch.MaxResults),
	)
	events := calendar.New(
		microsoft.NewClient(microsoft.ServiceCalendar),
		calendar.NewConfig(cfg.Fetch.MaxResults),
	)

	var recorder services.RunRecorder
	if cfg.History.Enabled {
		store, err := history.NewStore(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		recorder = store
	}

	snapshotter := services.NewSnapshotter(microsoft.NewAuthenticator(creds), mail, events, recorder)

	bundle, err := snapshotter.Run(cmd.Context(), cfg.Export.OutputPath)
	if err != nil {
		return err
	}

	fmt.Printf("Snapshot written to %s\n", cfg.Export.OutputPath)
	fmt.Printf("  Inbox emails:    %d\n", bundle.TotalItems.InboxEmails)
	fmt.Printf("  Sent emails:     %d\n", bundle.TotalItems.SentEmails)
	fmt.Printf("  Calendar events: %d\n", bundle.TotalItems.CalendarEvents)
	return nil
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(password), nil
}
