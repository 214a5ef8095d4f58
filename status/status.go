// Package status reconciles the registry's view of jobs with launchd's.
//
// Reporting is read-only: divergence is surfaced, never repaired.
package status

import (
	"context"

	"github.com/cbillows/launchd-me/launchd"
	"github.com/cbillows/launchd-me/registry"
)

// Live is the reconciled runtime state shown next to the registry status
type Live string

const (
	// LiveLoaded: launchd reports the label
	LiveLoaded Live = "loaded"
	// LiveAbsent: launchd does not report the label
	LiveAbsent Live = "absent"
	// LiveDrifted: the registry says loaded but launchd disagrees
	LiveDrifted Live = "drifted"
)

// Row is one job's combined registry and runtime state
type Row struct {
	Label          string          `json:"label"`
	ScriptPath     string          `json:"script_path"`
	Schedule       string          `json:"schedule"`
	RegistryStatus registry.Status `json:"registry_status"`
	Live           Live            `json:"live_state"`
}

// Reporter builds status rows from the registry and the OS service manager
type Reporter struct {
	store   *registry.Store
	manager launchd.Manager
}

// NewReporter creates a Reporter over the given registry and manager
func NewReporter(store *registry.Store, manager launchd.Manager) *Reporter {
	return &Reporter{store: store, manager: manager}
}

// Collect returns one row per registered job, in creation order. Each row
// carries the stored status plus launchd's answer for the label.
func (r *Reporter) Collect(ctx context.Context) ([]Row, error) {
	records, err := r.store.List()
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records))
	for _, record := range records {
		row, err := r.row(ctx, record)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ForLabel returns the row for a single job
func (r *Reporter) ForLabel(ctx context.Context, label string) (Row, error) {
	record, err := r.store.Get(label)
	if err != nil {
		return Row{}, err
	}
	return r.row(ctx, record)
}

func (r *Reporter) row(ctx context.Context, record *registry.JobRecord) (Row, error) {
	state, err := r.manager.IsLoaded(ctx, record.Label)
	if err != nil {
		return Row{}, err
	}

	return Row{
		Label:          record.Label,
		ScriptPath:     record.ScriptPath,
		Schedule:       record.ScheduleType + " " + record.ScheduleValue,
		RegistryStatus: record.Status,
		Live:           reconcile(record.Status, state),
	}, nil
}

// reconcile maps launchd's answer onto the reported live state. A record
// the registry believes is loaded but launchd cannot find has drifted.
func reconcile(status registry.Status, state launchd.LiveState) Live {
	if state == launchd.LiveLoaded {
		return LiveLoaded
	}
	if status == registry.StatusLoaded {
		return LiveDrifted
	}
	return LiveAbsent
}
