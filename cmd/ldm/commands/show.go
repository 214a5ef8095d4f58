package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cbillows/launchd-me/config"
	"github.com/cbillows/launchd-me/display"
	"github.com/cbillows/launchd-me/errors"
	"github.com/cbillows/launchd-me/launchd"
	"github.com/cbillows/launchd-me/registry"
	"github.com/cbillows/launchd-me/status"
)

// ShowCmd prints one job's full registry record and audit trail
var ShowCmd = &cobra.Command{
	Use:   "show <label>",
	Short: "Show a job's record, live state, and installation history",
	Long: `Show everything the registry knows about one job: the stored record,
launchd's current view of the label, and the install/uninstall audit trail.

Examples:
  ldm show local.ldm.backup
  ldm show local.ldm.backup --content     # include the rendered plist
  ldm show local.ldm.backup --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var showContentFlag bool

func init() {
	ShowCmd.Flags().BoolVar(&showContentFlag, "content", false, "Print the rendered descriptor content")
}

func runShow(cmd *cobra.Command, args []string) error {
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

	reporter := status.NewReporter(store, launchd.NewLaunchctl(cfg))
	row, err := reporter.ForLabel(cmd.Context(), label)
	if err != nil {
		return err
	}

	events, err := store.ListEvents(label)
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		payload := map[string]interface{}{
			"label":           record.Label,
			"script_path":     record.ScriptPath,
			"descriptor_path": record.DescriptorPath,
			"schedule_type":   record.ScheduleType,
			"schedule_value":  record.ScheduleValue,
			"status":          record.Status,
			"live_state":      row.Live,
			"created_at":      record.CreatedAt,
			"updated_at":      record.UpdatedAt,
			"events":          events,
		}
		if showContentFlag {
			payload["descriptor_content"] = record.DescriptorContent
		}
		return display.OutputJSON(payload)
	}

	pterm.DefaultSection.Println(record.Label)
	fmt.Printf("Script:     %s\n", record.ScriptPath)
	fmt.Printf("Descriptor: %s\n", record.DescriptorPath)
	fmt.Printf("Schedule:   %s %s\n", record.ScheduleType, record.ScheduleValue)
	fmt.Printf("Status:     %s\n", record.Status)
	fmt.Printf("Live:       %s\n", row.Live)
	fmt.Printf("Created:    %s\n", record.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated:    %s\n", record.UpdatedAt.Local().Format("2006-01-02 15:04:05"))

	if len(events) > 0 {
		fmt.Println()
		pterm.DefaultSection.Println("Installation history")
		for _, event := range events {
			outcome := pterm.Green("ok")
			if !event.Success {
				outcome = pterm.Red("failed")
			}
			fmt.Printf("%s  %-9s %s", event.CreatedAt.Local().Format("2006-01-02 15:04:05"), event.EventType, outcome)
			if event.Detail != "" {
				fmt.Printf("  %s", event.Detail)
			}
			fmt.Println()
		}
	}

	if showContentFlag {
		fmt.Println()
		pterm.DefaultSection.Println("Descriptor content")
		fmt.Println(record.DescriptorContent)
	}

	return nil
}
