// Package registry persists the local record of managed launchd jobs.
//
// The registry is the single source of truth for what launchd-me thinks
// exists. launchd itself is the source of truth for what is actually
// scheduled; the status package surfaces divergence between the two.
package registry

import "time"

// Status is a job's registration state as last observed by this tool
type Status string

const (
	// StatusUnregistered: descriptor rendered and recorded, adapter not yet run
	StatusUnregistered Status = "unregistered"
	// StatusInstalled: descriptor symlinked into the agents directory, not loaded
	StatusInstalled Status = "installed"
	// StatusLoaded: launchctl load succeeded
	StatusLoaded Status = "loaded"
	// StatusFailed: an adapter step failed; descriptor left on disk for inspection
	StatusFailed Status = "failed"
)

// JobRecord is one registry entry. Exactly one record exists per managed
// descriptor file on disk.
type JobRecord struct {
	ID                int64
	Label             string
	ScriptPath        string
	DescriptorPath    string
	DescriptorContent string
	ScheduleType      string
	ScheduleValue     string
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Event types recorded in the installation audit trail
const (
	EventInstall   = "install"
	EventUninstall = "uninstall"
)

// InstallationEvent is one audit entry for an install or uninstall attempt
type InstallationEvent struct {
	ID        string
	JobLabel  string
	EventType string
	Success   bool
	Detail    string
	CreatedAt time.Time
}
