package display

import (
	"github.com/pterm/pterm"

	"github.com/cbillows/launchd-me/status"
)

// RenderJobsTable prints the status rows as a table, coloring the live
// state so drift stands out.
func RenderJobsTable(rows []status.Row) error {
	if len(rows) == 0 {
		pterm.Info.Println("No jobs registered")
		return nil
	}

	data := pterm.TableData{
		{"LABEL", "SCRIPT", "SCHEDULE", "STATUS", "LIVE"},
	}
	for _, row := range rows {
		data = append(data, []string{
			row.Label,
			row.ScriptPath,
			row.Schedule,
			string(row.RegistryStatus),
			colorLive(row.Live),
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func colorLive(live status.Live) string {
	switch live {
	case status.LiveLoaded:
		return pterm.Green(string(live))
	case status.LiveDrifted:
		return pterm.Red(string(live))
	default:
		return pterm.Gray(string(live))
	}
}
