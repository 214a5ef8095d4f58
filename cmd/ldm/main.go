package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cbillows/launchd-me/cmd/ldm/commands"
	"github.com/cbillows/launchd-me/logger"
)

var rootCmd = &cobra.Command{
	Use:   "ldm",
	Short: "launchd-me - Schedule scripts with launchd",
	Long: `launchd-me (ldm) - Schedule scripts as per-user launchd agents.

ldm renders a launchd job descriptor for a script, records it in a local
registry, links it into ~/Library/LaunchAgents, and activates it with
launchctl. The registry keeps track of every job it has created so jobs
can be listed, inspected, and removed later.

Available commands:
  schedule - Generate a descriptor for a script and activate it
  list     - List registered jobs and their launchd state
  show     - Show one job's record and installation history
  remove   - Unload a job and forget it
  db       - Manage the registry database
  version  - Show version information

Examples:
  ldm schedule ~/scripts/backup.py --interval 300s
  ldm schedule ~/scripts/report.py --calendar "Hour=9,Minute=30"
  ldm list
  ldm remove local.ldm.backup`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output machine-readable JSON instead of tables")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit structured JSON logs on stderr")

	rootCmd.AddCommand(commands.ScheduleCmd)
	rootCmd.AddCommand(commands.ListCmd)
	rootCmd.AddCommand(commands.ShowCmd)
	rootCmd.AddCommand(commands.RemoveCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
