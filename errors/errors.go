// Package errors provides error handling for launchd-me.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints surfaced to the CLI user
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check against a sentinel
//	if errors.Is(err, errors.ErrNotFound) {
//	    // handle unknown label
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
)

// Sentinel errors for every failure class the core can report.
// Commands match on these with errors.Is() to choose exit behavior;
// wrap them with errors.Wrap()/Wrapf() to add context while keeping the type.
var (
	// ErrInvalidSchedule indicates a schedule expression that cannot be
	// normalized: unknown schedule type, out-of-range calendar field, or a
	// non-positive interval.
	ErrInvalidSchedule = New("invalid schedule")

	// ErrMissingSubstitution indicates a template placeholder with no
	// corresponding substitution value.
	ErrMissingSubstitution = New("missing template substitution")

	// ErrDuplicateLabel indicates a job label that is already registered.
	ErrDuplicateLabel = New("duplicate job label")

	// ErrNotFound indicates the requested job label is not in the registry.
	ErrNotFound = New("not found")

	// ErrPermission indicates the target script could not be made executable.
	ErrPermission = New("permission denied")

	// ErrInvalidDescriptor indicates the rendered plist was rejected by the
	// descriptor linter. The linter's diagnostic text is attached as detail.
	ErrInvalidDescriptor = New("invalid descriptor")

	// ErrInstallation indicates the descriptor could not be placed in the
	// agents directory (unwritable directory, conflicting entry).
	ErrInstallation = New("installation failed")

	// ErrActivation indicates the OS load command failed. The command's
	// stderr output is attached as detail.
	ErrActivation = New("activation failed")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsDuplicateLabelError checks if an error is or wraps ErrDuplicateLabel.
func IsDuplicateLabelError(err error) bool {
	return err != nil && Is(err, ErrDuplicateLabel)
}

// IsInvalidScheduleError checks if an error is or wraps ErrInvalidSchedule.
func IsInvalidScheduleError(err error) bool {
	return err != nil && Is(err, ErrInvalidSchedule)
}

// NewNotFoundError creates a not-found error with a formatted message.
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvalidScheduleError creates an invalid-schedule error with a formatted message.
func NewInvalidScheduleError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidSchedule, Newf(format, args...).Error())
}
