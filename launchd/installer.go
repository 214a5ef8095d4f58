package launchd

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cbillows/launchd-me/config"
	"github.com/cbillows/launchd-me/errors"
	"github.com/cbillows/launchd-me/logger"
	"github.com/cbillows/launchd-me/registry"
)

// Installer walks a registered job through installation and activation, and
// back down again. Every step updates the registry so the recorded status
// reflects the last observed reality, including failures.
type Installer struct {
	cfg     *config.Config
	manager Manager
	store   *registry.Store
}

// NewInstaller creates an Installer backed by the given manager and registry
func NewInstaller(cfg *config.Config, manager Manager, store *registry.Store) *Installer {
	return &Installer{cfg: cfg, manager: manager, store: store}
}

// AgentPath returns where the job's descriptor is (or would be) linked
// inside the launchd agents directory.
func (i *Installer) AgentPath(record *registry.JobRecord) string {
	return filepath.Join(i.cfg.Paths.AgentsDir, filepath.Base(record.DescriptorPath))
}

// Install validates the descriptor, links it into the agents directory, and
// activates it. The registry status advances step by step: installed after
// the link exists, loaded after activation. An activation failure leaves the
// descriptor installed on disk for inspection and marks the record failed.
//
// When makeExecutable is set the script is chmodded executable first, the
// way a user would run chmod +x by hand.
func (i *Installer) Install(ctx context.Context, record *registry.JobRecord, makeExecutable bool) error {
	if makeExecutable {
		if err := EnsureExecutable(record.ScriptPath); err != nil {
			i.recordEvent(record.Label, registry.EventInstall, false, err)
			return err
		}
	}

	if err := i.manager.Validate(ctx, record.DescriptorPath); err != nil {
		i.recordEvent(record.Label, registry.EventInstall, false, err)
		return err
	}

	if err := i.link(record); err != nil {
		i.recordEvent(record.Label, registry.EventInstall, false, err)
		return err
	}
	if err := i.store.UpdateStatus(record.Label, registry.StatusInstalled); err != nil {
		return err
	}
	record.Status = registry.StatusInstalled

	agentPath := i.AgentPath(record)
	if err := i.manager.Load(ctx, agentPath); err != nil {
		// The symlink stays in place; the record is marked failed so the
		// divergence is visible instead of silently rolled back.
		if statusErr := i.store.UpdateStatus(record.Label, registry.StatusFailed); statusErr != nil {
			logger.Errorw("failed to mark job failed", "label", record.Label, "error", statusErr)
		}
		record.Status = registry.StatusFailed
		i.recordEvent(record.Label, registry.EventInstall, false, err)
		return err
	}

	if err := i.store.UpdateStatus(record.Label, registry.StatusLoaded); err != nil {
		return err
	}
	record.Status = registry.StatusLoaded
	i.recordEvent(record.Label, registry.EventInstall, true, nil)

	return nil
}

// Uninstall deactivates the job and removes its agents-directory link. An
// unload failure is logged and tolerated: the job may already be unloaded,
// or launchd may have dropped it, and either way the goal state is reached
// by removing the link. The registry record itself is left for the caller.
func (i *Installer) Uninstall(ctx context.Context, record *registry.JobRecord) error {
	agentPath := i.AgentPath(record)

	if err := i.manager.Unload(ctx, agentPath); err != nil {
		logger.Warnw("unload failed, continuing teardown", "label", record.Label, "error", err)
		i.recordEvent(record.Label, registry.EventUninstall, false, err)
	} else {
		i.recordEvent(record.Label, registry.EventUninstall, true, nil)
	}

	if err := os.Remove(agentPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(errors.ErrInstallation, "remove agent link %s: %v", agentPath, err)
	}

	if err := i.store.UpdateStatus(record.Label, registry.StatusUnregistered); err != nil {
		return err
	}
	record.Status = registry.StatusUnregistered

	return nil
}

// link symlinks the descriptor into the agents directory. An existing link
// that already points at this descriptor is fine; anything else occupying
// the name is a conflict.
func (i *Installer) link(record *registry.JobRecord) error {
	if err := os.MkdirAll(i.cfg.Paths.AgentsDir, config.DefaultDirPermissions); err != nil {
		return errors.Wrapf(errors.ErrInstallation, "create agents directory %s: %v", i.cfg.Paths.AgentsDir, err)
	}

	agentPath := i.AgentPath(record)
	if target, err := os.Readlink(agentPath); err == nil {
		if target == record.DescriptorPath {
			return nil
		}
		return errors.Wrapf(errors.ErrInstallation,
			"agent path %s already links to %s", agentPath, target)
	} else if _, statErr := os.Lstat(agentPath); statErr == nil {
		return errors.Wrapf(errors.ErrInstallation,
			"agent path %s exists and is not a symlink", agentPath)
	}

	if err := os.Symlink(record.DescriptorPath, agentPath); err != nil {
		return errors.Wrapf(errors.ErrInstallation, "link %s: %v", agentPath, err)
	}
	return nil
}

// EnsureExecutable adds execute permission to the script, preserving the
// existing mode bits.
func EnsureExecutable(scriptPath string) error {
	info, err := os.Stat(scriptPath)
	if err != nil {
		return errors.Wrapf(errors.ErrPermission, "stat %s: %v", scriptPath, err)
	}
	if err := os.Chmod(scriptPath, info.Mode().Perm()|0o111); err != nil {
		return errors.Wrapf(errors.ErrPermission, "chmod +x %s: %v", scriptPath, err)
	}
	return nil
}

func (i *Installer) recordEvent(label, eventType string, success bool, cause error) {
	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	if err := i.store.RecordEvent(label, eventType, success, detail); err != nil {
		logger.Warnw("failed to record installation event", "label", label, "error", err)
	}
}
