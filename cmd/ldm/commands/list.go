package commands

import (
	"github.com/spf13/cobra"

	"github.com/cbillows/launchd-me/config"
	"github.com/cbillows/launchd-me/display"
	"github.com/cbillows/launchd-me/errors"
	"github.com/cbillows/launchd-me/launchd"
	"github.com/cbillows/launchd-me/registry"
	"github.com/cbillows/launchd-me/status"
)

// ListCmd shows all registered jobs with their live launchd state
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered jobs and their launchd state",
	Long: `List every job in the registry alongside launchd's view of it.

A job shown as "drifted" is recorded as loaded but no longer known to
launchd, typically after a reboot without RunAtLoad or a manual unload.

Examples:
  ldm list
  ldm list --json`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	reporter := status.NewReporter(registry.NewStore(database), launchd.NewLaunchctl(cfg))
	rows, err := reporter.Collect(cmd.Context())
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(rows)
	}
	return display.RenderJobsTable(rows)
}
