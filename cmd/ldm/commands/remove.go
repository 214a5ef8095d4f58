package commands

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cbillows/launchd-me/config"
	"github.com/cbillows/launchd-me/errors"
	"github.com/cbillows/launchd-me/launchd"
	"github.com/cbillows/launchd-me/logger"
	"github.com/cbillows/launchd-me/registry"
)

// RemoveCmd unschedules a job and forgets it
var RemoveCmd = &cobra.Command{
	Use:   "remove <label>",
	Short: "Unload a job, remove its agent link, and forget it",
	Long: `Tear down a scheduled job: unload it from launchd, remove the symlink
from the agents directory, and delete the registry record.

An unload failure (for example the job already vanished from launchd) is
logged and tolerated; teardown still completes.

Examples:
  ldm remove local.ldm.backup
  ldm remove local.ldm.backup --keep-descriptor`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

var keepDescriptorFlag bool

func init() {
	RemoveCmd.Flags().BoolVar(&keepDescriptorFlag, "keep-descriptor", false, "Leave the rendered plist file in the plist directory")
}

func runRemove(cmd *cobra.Command, args []string) error {
	label := args[0]

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	store := registry.NewStore(database)
	record, err := store.Get(label)
	if err != nil {
		return err
	}

	installer := launchd.NewInstaller(cfg, launchd.NewLaunchctl(cfg), store)
	if err := installer.Uninstall(cmd.Context(), record); err != nil {
		return err
	}

	if !keepDescriptorFlag {
		if err := os.Remove(record.DescriptorPath); err != nil && !os.IsNotExist(err) {
			logger.Warnw("failed to remove descriptor file", "path", record.DescriptorPath, "error", err)
		}
	}

	if err := store.Remove(label); err != nil {
		return err
	}

	pterm.Success.Printf("Job removed: %s\n", label)
	return nil
}
