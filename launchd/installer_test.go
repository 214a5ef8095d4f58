package launchd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbillows/launchd-me/config"
	"github.com/cbillows/launchd-me/errors"
	ldmtest "github.com/cbillows/launchd-me/internal/testing"
	"github.com/cbillows/launchd-me/registry"
)

// fakeManager records calls and returns scripted results so installer flow
// can be tested without launchctl.
type fakeManager struct {
	validateErr error
	loadErr     error
	unloadErr   error
	live        LiveState
	calls       []string
}

func (f *fakeManager) Validate(_ context.Context, path string) error {
	f.calls = append(f.calls, "validate "+path)
	return f.validateErr
}

func (f *fakeManager) Load(_ context.Context, path string) error {
	f.calls = append(f.calls, "load "+path)
	return f.loadErr
}

func (f *fakeManager) Unload(_ context.Context, path string) error {
	f.calls = append(f.calls, "unload "+path)
	return f.unloadErr
}

func (f *fakeManager) IsLoaded(_ context.Context, label string) (LiveState, error) {
	f.calls = append(f.calls, "is-loaded "+label)
	if f.live == "" {
		return LiveAbsent, nil
	}
	return f.live, nil
}

// installerFixture wires an Installer against temp dirs and an in-memory
// registry, with one unregistered record ready to install.
func installerFixture(t *testing.T, manager Manager) (*Installer, *registry.Store, *registry.JobRecord) {
	t.Helper()

	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "backup.py")
	require.NoError(t, os.WriteFile(scriptPath, []byte("print('hi')\n"), 0o644))

	descriptorPath := filepath.Join(dir, "local.ldm.backup.plist")
	require.NoError(t, os.WriteFile(descriptorPath, []byte("<plist/>"), 0o644))

	cfg := &config.Config{}
	cfg.Paths.AgentsDir = filepath.Join(dir, "LaunchAgents")

	store := registry.NewStore(ldmtest.CreateTestDB(t))
	record := &registry.JobRecord{
		Label:          "local.ldm.backup",
		ScriptPath:     scriptPath,
		DescriptorPath: descriptorPath,
		ScheduleType:   "interval",
		ScheduleValue:  "300s",
	}
	require.NoError(t, store.Create(record))

	return NewInstaller(cfg, manager, store), store, record
}

func TestInstall(t *testing.T) {
	manager := &fakeManager{}
	installer, store, record := installerFixture(t, manager)

	require.NoError(t, installer.Install(context.Background(), record, true))

	assert.Equal(t, registry.StatusLoaded, record.Status)
	stored, err := store.Get(record.Label)
	require.NoError(t, err)
	assert.Equal(t, registry.StatusLoaded, stored.Status)

	// The agents directory holds a symlink back to the descriptor
	target, err := os.Readlink(installer.AgentPath(record))
	require.NoError(t, err)
	assert.Equal(t, record.DescriptorPath, target)

	// Validation ran against the descriptor, activation against the link
	assert.Equal(t, []string{
		"validate " + record.DescriptorPath,
		"load " + installer.AgentPath(record),
	}, manager.calls)

	// chmod +x preserved the original bits and added execute
	info, err := os.Stat(record.ScriptPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	events, err := store.ListEvents(record.Label)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Success)
}

func TestInstallValidationFailure(t *testing.T) {
	manager := &fakeManager{
		validateErr: errors.Wrap(errors.ErrInvalidDescriptor, "plutil rejected it"),
	}
	installer, store, record := installerFixture(t, manager)

	err := installer.Install(context.Background(), record, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidDescriptor))

	// Nothing was installed and the record never advanced
	_, linkErr := os.Lstat(installer.AgentPath(record))
	assert.True(t, os.IsNotExist(linkErr))
	stored, getErr := store.Get(record.Label)
	require.NoError(t, getErr)
	assert.Equal(t, registry.StatusUnregistered, stored.Status)
}

func TestInstallActivationFailureLeavesDescriptorInstalled(t *testing.T) {
	manager := &fakeManager{
		loadErr: errors.Wrap(errors.ErrActivation, "launchctl said no"),
	}
	installer, store, record := installerFixture(t, manager)

	err := installer.Install(context.Background(), record, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrActivation))

	// Fail visible: the link stays on disk and the record is marked failed
	_, linkErr := os.Lstat(installer.AgentPath(record))
	assert.NoError(t, linkErr)
	stored, getErr := store.Get(record.Label)
	require.NoError(t, getErr)
	assert.Equal(t, registry.StatusFailed, stored.Status)

	events, err := store.ListEvents(record.Label)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Success)
	assert.Contains(t, events[0].Detail, "launchctl said no")
}

func TestInstallConflictingAgentPath(t *testing.T) {
	installer, _, record := installerFixture(t, &fakeManager{})

	// A regular file is squatting on the agent path
	require.NoError(t, os.MkdirAll(installer.cfg.Paths.AgentsDir, 0o755))
	require.NoError(t, os.WriteFile(installer.AgentPath(record), []byte("not ours"), 0o644))

	err := installer.Install(context.Background(), record, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInstallation))
}

func TestInstallReusesExistingLink(t *testing.T) {
	installer, store, record := installerFixture(t, &fakeManager{})

	require.NoError(t, os.MkdirAll(installer.cfg.Paths.AgentsDir, 0o755))
	require.NoError(t, os.Symlink(record.DescriptorPath, installer.AgentPath(record)))

	require.NoError(t, installer.Install(context.Background(), record, false))

	stored, err := store.Get(record.Label)
	require.NoError(t, err)
	assert.Equal(t, registry.StatusLoaded, stored.Status)
}

func TestInstallMissingScript(t *testing.T) {
	installer, _, record := installerFixture(t, &fakeManager{})
	require.NoError(t, os.Remove(record.ScriptPath))

	err := installer.Install(context.Background(), record, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPermission))
}

func TestUninstall(t *testing.T) {
	manager := &fakeManager{}
	installer, store, record := installerFixture(t, manager)
	require.NoError(t, installer.Install(context.Background(), record, false))

	require.NoError(t, installer.Uninstall(context.Background(), record))

	_, linkErr := os.Lstat(installer.AgentPath(record))
	assert.True(t, os.IsNotExist(linkErr))
	stored, err := store.Get(record.Label)
	require.NoError(t, err)
	assert.Equal(t, registry.StatusUnregistered, stored.Status)
}

func TestUninstallToleratesUnloadFailure(t *testing.T) {
	manager := &fakeManager{}
	installer, store, record := installerFixture(t, manager)
	require.NoError(t, installer.Install(context.Background(), record, false))

	// launchd already forgot the job; teardown still reaches the goal state
	manager.unloadErr = errors.Wrap(errors.ErrActivation, "no such job")
	require.NoError(t, installer.Uninstall(context.Background(), record))

	_, linkErr := os.Lstat(installer.AgentPath(record))
	assert.True(t, os.IsNotExist(linkErr))

	events, err := store.ListEvents(record.Label)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.False(t, events[1].Success)
}

func TestUninstallWithoutLink(t *testing.T) {
	installer, _, record := installerFixture(t, &fakeManager{})

	// No link was ever created; removal still succeeds
	require.NoError(t, installer.Uninstall(context.Background(), record))
}
