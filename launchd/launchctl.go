package launchd

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/cbillows/launchd-me/config"
	"github.com/cbillows/launchd-me/errors"
	"github.com/cbillows/launchd-me/logger"
)

// Launchctl implements Manager by shelling out to plutil and launchctl.
type Launchctl struct {
	launchctlPath string
	plutilPath    string
	timeout       time.Duration
}

// NewLaunchctl builds a Launchctl from the launchd section of the config
func NewLaunchctl(cfg *config.Config) *Launchctl {
	return &Launchctl{
		launchctlPath: cfg.Launchd.LaunchctlPath,
		plutilPath:    cfg.Launchd.PlutilPath,
		timeout:       time.Duration(cfg.Launchd.TimeoutSeconds) * time.Second,
	}
}

// run executes one external command with a bounded wait, returning combined
// stdout and captured stderr separately.
func (l *Launchctl) run(ctx context.Context, name string, args ...string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	logger.Debugw("running command", "command", shellquote.Join(append([]string{name}, args...)...))

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return stdout.String(), stderr.String(),
			errors.Newf("%s timed out after %s", name, l.timeout)
	}
	return stdout.String(), stderr.String(), err
}

// Validate lints the descriptor with plutil. A lint failure wraps
// ErrInvalidDescriptor and carries plutil's diagnostic output.
func (l *Launchctl) Validate(ctx context.Context, descriptorPath string) error {
	stdout, stderr, err := l.run(ctx, l.plutilPath, "-lint", descriptorPath)
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return errors.WithDetail(
				errors.Wrapf(errors.ErrInvalidDescriptor, "plutil rejected %s", descriptorPath),
				strings.TrimSpace(stdout+stderr),
			)
		}
		return errors.Wrapf(err, "failed to run %s", l.plutilPath)
	}
	return nil
}

// Load activates the descriptor via launchctl load
func (l *Launchctl) Load(ctx context.Context, descriptorPath string) error {
	_, stderr, err := l.run(ctx, l.launchctlPath, "load", descriptorPath)
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return errors.WithDetail(
				errors.Wrapf(errors.ErrActivation, "launchctl load %s", descriptorPath),
				strings.TrimSpace(stderr),
			)
		}
		return errors.Wrapf(err, "failed to run %s", l.launchctlPath)
	}
	return nil
}

// Unload deactivates the descriptor via launchctl unload
func (l *Launchctl) Unload(ctx context.Context, descriptorPath string) error {
	_, stderr, err := l.run(ctx, l.launchctlPath, "unload", descriptorPath)
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return errors.WithDetail(
				errors.Wrapf(errors.ErrActivation, "launchctl unload %s", descriptorPath),
				strings.TrimSpace(stderr),
			)
		}
		return errors.Wrapf(err, "failed to run %s", l.launchctlPath)
	}
	return nil
}

// IsLoaded queries launchctl for the label. launchctl list exits non-zero
// for unknown labels, which maps to LiveAbsent rather than an error.
func (l *Launchctl) IsLoaded(ctx context.Context, label string) (LiveState, error) {
	_, _, err := l.run(ctx, l.launchctlPath, "list", label)
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return LiveAbsent, nil
		}
		return LiveAbsent, errors.Wrapf(err, "failed to run %s", l.launchctlPath)
	}
	return LiveLoaded, nil
}
