package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"spectres-crm/internal/lifecycle"

	"github.com/spf13/cobra"
)

var lifecycleCmd = &cobra.Command{
	Use:   "lifecycle",
	Short: "Client status lifecycle job",
}

var lifecycleRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the status lifecycle job once and print its summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := appInstance.Runner.Run(context.Background(), lifecycle.TriggerCLI)
		if err != nil {
			return fmt.Errorf("lifecycle run failed: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
		if len(result.Errors) > 0 {
			return fmt.Errorf("%d client(s) failed", len(result.Errors))
		}
		return nil
	},
}

func init() {
	lifecycleCmd.AddCommand(lifecycleRunCmd)
}
