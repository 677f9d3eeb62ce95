package cli

import (
	"spectres-crm/internal/app"

	"github.com/spf13/cobra"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "crmctl",
	Short: "Operations tool for the Spectres CRM backend",
	Long: `crmctl runs maintenance tasks against the CRM database using the same
configuration as the server (config.yaml, .env and environment variables).`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	rootCmd.AddCommand(lifecycleCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(usersCmd)
}
