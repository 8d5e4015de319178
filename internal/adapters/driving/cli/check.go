package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphsnap/graphsnap/internal/adapters/driven/config/file"
	"github.com/graphsnap/graphsnap/internal/connectors/microsoft"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify configuration and Microsoft Graph connectivity",
	Long: `Check validates that the required credentials are configured, performs a
token acquisition, and fetches the signed-in account's profile. Run this
before the first fetch to confirm the setup.`,
	RunE: runCheck,
}

var checkConfigPath string

func init() {
	checkCmd.Flags().StringVar(&checkConfigPath, "config", "", "Path to config file (default ~/.graphsnap/config.toml)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := file.Load(checkConfigPath)
	if err != nil {
		return err
	}

	creds := cfg.Credentials()

	fmt.Println("Checking configuration...")
	printPresence("tenant_id", creds.TenantID != "")
	printPresence("client_id", creds.ClientID != "")
	if creds.UsesPasswordGrant() {
		printPresence("username", true)
		printPresence("password", creds.Password != "")
	} else {
		printPresence("client_secret", creds.ClientSecret != "")
	}

	if err := creds.Validate(); err != nil {
		return fmt.Errorf("configuration incomplete: %w", err)
	}

	fmt.Println("Authenticating...")
	token, err := microsoft.NewAuthenticator(creds).Authenticate(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Println("  ok: token acquired")

	client := microsoft.NewClient(microsoft.ServiceOutlook)
	userInfo, err := client.GetUserInfo(cmd.Context(), token)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}

	fmt.Printf("  ok: signed in as %s\n", userInfo.GetUserEmail())
	fmt.Println("All checks passed. You're ready to run 'graphsnap fetch'.")
	return nil
}

func printPresence(name string, present bool) {
	if present {
		fmt.Printf("  ok:      %s\n", name)
	} else {
		fmt.Printf("  missing: %s\n", name)
	}
}
