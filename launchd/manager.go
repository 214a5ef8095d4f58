// Package launchd adapts rendered descriptors into live launchd jobs.
//
// The OS service manager is driven through a narrow Manager interface so
// tests substitute a fake instead of invoking launchctl. The real
// implementation shells out to plutil and launchctl with a bounded wait and
// captured stderr.
package launchd

import "context"

// LiveState is launchd's view of a label, as reported by IsLoaded
type LiveState string

const (
	// LiveLoaded: launchd knows the label
	LiveLoaded LiveState = "loaded"
	// LiveAbsent: launchd has no such label
	LiveAbsent LiveState = "absent"
)

// Manager is the capability surface launchd-me needs from the OS service
// manager. Each method maps to one external command invocation.
type Manager interface {
	// Validate lints the descriptor file. A rejection wraps
	// errors.ErrInvalidDescriptor and carries the linter's diagnostic text.
	Validate(ctx context.Context, descriptorPath string) error

	// Load activates the descriptor. A failure wraps errors.ErrActivation
	// and carries the command's stderr output.
	Load(ctx context.Context, descriptorPath string) error

	// Unload deactivates the descriptor. Callers on the teardown path
	// tolerate failures here; the goal state is still reachable.
	Unload(ctx context.Context, descriptorPath string) error

	// IsLoaded reports whether launchd currently knows the label.
	// A label launchd has never seen is LiveAbsent, not an error.
	IsLoaded(ctx context.Context, label string) (LiveState, error)
}
