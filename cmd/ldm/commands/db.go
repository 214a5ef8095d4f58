package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cbillows/launchd-me/config"
	"github.com/cbillows/launchd-me/display"
	"github.com/cbillows/launchd-me/errors"
)

// DbCmd groups registry database operations
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the job registry database",
	Long: `Manage the registry database that records scheduled jobs.

Examples:
  ldm db stats    # Show job counts and database path`,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show registry statistics",
	Long:  "Display job counts per status plus installation event totals.",
	RunE:  runDbStats,
}

func init() {
	DbCmd.AddCommand(dbStatsCmd)
}

func runDbStats(cmd *cobra.Command, args []string) error {
	dbPath, err := config.GetDatabasePath()
	if err != nil {
		return errors.Wrap(err, "failed to get database path")
	}

	database, err := openDatabase(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	var totalJobs, totalEvents int
	if err := database.QueryRow(`SELECT COUNT(*) FROM jobs`).Scan(&totalJobs); err != nil {
		return errors.Wrap(err, "failed to count jobs")
	}
	if err := database.QueryRow(`SELECT COUNT(*) FROM installation_events`).Scan(&totalEvents); err != nil {
		return errors.Wrap(err, "failed to count installation events")
	}

	byStatus := map[string]int{}
	rows, err := database.Query(`SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return errors.Wrap(err, "failed to count jobs by status")
	}
	defer rows.Close()
	for rows.Next() {
		var s string
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return errors.Wrap(err, "failed to scan status count")
		}
		byStatus[s] = n
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "failed to read status counts")
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]interface{}{
			"database_path":       dbPath,
			"total_jobs":          totalJobs,
			"jobs_by_status":      byStatus,
			"installation_events": totalEvents,
		})
	}

	fmt.Println("Registry Statistics")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("Database Path:       %s\n", dbPath)
	fmt.Printf("Total Jobs:          %d\n", totalJobs)
	for _, s := range []string{"unregistered", "installed", "loaded", "failed"} {
		if n, ok := byStatus[s]; ok {
			fmt.Printf("  %-18s %d\n", s+":", n)
		}
	}
	fmt.Printf("Installation Events: %d\n", totalEvents)

	return nil
}
