package commands

import (
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cbillows/launchd-me/config"
	"github.com/cbillows/launchd-me/display"
	"github.com/cbillows/launchd-me/errors"
	"github.com/cbillows/launchd-me/launchd"
	"github.com/cbillows/launchd-me/logger"
	"github.com/cbillows/launchd-me/plist"
	"github.com/cbillows/launchd-me/registry"
	"github.com/cbillows/launchd-me/schedule"
)

// ScheduleCmd registers a script with launchd on a schedule
var ScheduleCmd = &cobra.Command{
	Use:   "schedule <script>",
	Short: "Generate a launchd descriptor for a script and activate it",
	Long: `Generate a launchd job descriptor (plist) for a script, record it in the
registry, and install it as a per-user launch agent.

Exactly one of --interval or --calendar is required.

Examples:
  ldm schedule ~/scripts/backup.py --interval 300s       # every 5 minutes
  ldm schedule ~/scripts/backup.py --interval 1d         # once a day
  ldm schedule ~/scripts/report.py --calendar "Hour=9,Minute=30"
  ldm schedule ~/scripts/report.py --calendar "Weekday=1,Hour=8"
  ldm schedule ~/scripts/draft.py --interval 5m --no-install`,
	Args: cobra.ExactArgs(1),
	RunE: runSchedule,
}

var (
	intervalFlag       string
	calendarFlag       string
	noInstallFlag      bool
	makeExecutableFlag bool
	forceFlag          bool
)

func init() {
	ScheduleCmd.Flags().StringVar(&intervalFlag, "interval", "", `Run every N seconds/minutes/hours/days, e.g. "300s", "5m", "1d"`)
	ScheduleCmd.Flags().StringVar(&calendarFlag, "calendar", "", `Run at calendar times, e.g. "Hour=9,Minute=30"`)
	ScheduleCmd.Flags().BoolVar(&noInstallFlag, "no-install", false, "Render and record the descriptor without installing it")
	ScheduleCmd.Flags().BoolVar(&makeExecutableFlag, "make-executable", true, "chmod the script executable before installing")
	ScheduleCmd.Flags().BoolVar(&forceFlag, "force", false, "Replace an existing job with the same label")
	ScheduleCmd.MarkFlagsMutuallyExclusive("interval", "calendar")
}

func parseScheduleFlags() (schedule.Spec, error) {
	switch {
	case intervalFlag != "":
		return schedule.Parse("interval", intervalFlag)
	case calendarFlag != "":
		return schedule.Parse("calendar", calendarFlag)
	default:
		return schedule.Spec{}, errors.WithHint(
			errors.Wrap(errors.ErrInvalidSchedule, "no schedule given"),
			"pass --interval or --calendar")
	}
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	if err := config.EnsureDirs(cfg); err != nil {
		return err
	}

	spec, err := parseScheduleFlags()
	if err != nil {
		return err
	}

	scriptPath, err := filepath.Abs(args[0])
	if err != nil {
		return errors.Wrapf(err, "failed to resolve script path %s", args[0])
	}

	descriptor, err := plist.NewDescriptor(cfg, scriptPath, spec)
	if err != nil {
		return err
	}

	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	store := registry.NewStore(database)
	installer := launchd.NewInstaller(cfg, launchd.NewLaunchctl(cfg), store)

	if forceFlag {
		if err := replaceExisting(cmd, installer, store, descriptor.Label); err != nil {
			return err
		}
	} else if err := rejectExisting(store, descriptor.Label); err != nil {
		// Checked before Write so a rejected duplicate never touches the
		// existing job's descriptor on disk.
		return err
	}

	descriptorPath, err := descriptor.Write(cfg.Paths.PlistDir)
	if err != nil {
		return err
	}
	logger.Infow("descriptor written", "label", descriptor.Label, "path", descriptorPath)

	record := &registry.JobRecord{
		Label:             descriptor.Label,
		ScriptPath:        descriptor.ScriptPath,
		DescriptorPath:    descriptorPath,
		DescriptorContent: descriptor.Content,
		ScheduleType:      string(spec.Type),
		ScheduleValue:     spec.String(),
	}
	if err := store.Create(record); err != nil {
		if errors.Is(err, errors.ErrDuplicateLabel) {
			return errors.WithHint(err, "pass --force to replace the existing job")
		}
		return err
	}

	if noInstallFlag {
		pterm.Success.Printf("Descriptor recorded: %s (not installed)\n", record.Label)
		pterm.Info.Printf("Descriptor: %s\n", descriptorPath)
		return nil
	}

	if err := installer.Install(cmd.Context(), record, makeExecutableFlag); err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]string{
			"label":           record.Label,
			"descriptor_path": record.DescriptorPath,
			"schedule":        record.ScheduleType + " " + record.ScheduleValue,
			"status":          string(record.Status),
		})
	}

	pterm.Success.Printf("Job scheduled: %s\n", record.Label)
	pterm.Info.Printf("Schedule:   %s %s\n", record.ScheduleType, record.ScheduleValue)
	pterm.Info.Printf("Descriptor: %s\n", descriptorPath)
	pterm.Info.Printf("Agent link: %s\n", installer.AgentPath(record))
	return nil
}

// rejectExisting fails with ErrDuplicateLabel when the label is already
// registered. The UNIQUE constraint in Create still backstops the race
// between this check and the insert.
func rejectExisting(store *registry.Store, label string) error {
	_, err := store.Get(label)
	if err == nil {
		return errors.WithHint(
			errors.Wrapf(errors.ErrDuplicateLabel, "label %s", label),
			"pass --force to replace the existing job")
	}
	if errors.Is(err, errors.ErrNotFound) {
		return nil
	}
	return err
}

// replaceExisting tears down and forgets a previously scheduled job with the
// same label. A label that was never scheduled is not an error here.
func replaceExisting(cmd *cobra.Command, installer *launchd.Installer, store *registry.Store, label string) error {
	existing, err := store.Get(label)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil
		}
		return err
	}

	logger.Infow("replacing existing job", "label", label, "status", existing.Status)
	if err := installer.Uninstall(cmd.Context(), existing); err != nil {
		return err
	}
	return store.Remove(label)
}
