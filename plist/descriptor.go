package plist

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cbillows/launchd-me/config"
	"github.com/cbillows/launchd-me/errors"
	"github.com/cbillows/launchd-me/schedule"
)

// Descriptor is a fully rendered launchd job descriptor, ready to be written
// to the plist directory and handed to the registration adapter.
type Descriptor struct {
	Label         string
	ScriptPath    string
	WorkingDir    string
	StdoutLogPath string
	StderrLogPath string
	Schedule      schedule.Spec
	Content       string
}

// NewDescriptor builds and renders a descriptor for the given script and
// schedule. The script path must be absolute; the label is derived from the
// configured namespace and the script's base name without extension
// ("local.ldm" + backup.py -> "local.ldm.backup"). Log paths follow the
// fixed <log_dir>/<label>_std_out.log / <label>_err.log convention.
func NewDescriptor(cfg *config.Config, scriptPath string, spec schedule.Spec) (*Descriptor, error) {
	if !filepath.IsAbs(scriptPath) {
		return nil, errors.Newf("script path must be absolute, got %q", scriptPath)
	}

	label := DeriveLabel(cfg.Label.Namespace, scriptPath)

	d := &Descriptor{
		Label:         label,
		ScriptPath:    scriptPath,
		WorkingDir:    filepath.Dir(scriptPath),
		StdoutLogPath: filepath.Join(cfg.Paths.LogDir, label+"_std_out.log"),
		StderrLogPath: filepath.Join(cfg.Paths.LogDir, label+"_err.log"),
		Schedule:      spec,
	}

	content, err := RenderJob(Substitutions{
		Label:            d.Label,
		Interpreter:      cfg.Launchd.Interpreter,
		ScriptPath:       d.ScriptPath,
		WorkingDirectory: d.WorkingDir,
		ScheduleBlock:    spec.DescriptorBlock(),
		StdoutLogPath:    d.StdoutLogPath,
		StderrLogPath:    d.StderrLogPath,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "render descriptor for %s", label)
	}
	d.Content = content

	return d, nil
}

// DeriveLabel builds the reverse-DNS job label for a script path
func DeriveLabel(namespace, scriptPath string) string {
	stem := strings.TrimSuffix(filepath.Base(scriptPath), filepath.Ext(scriptPath))
	return namespace + "." + stem
}

// FileName returns the descriptor's on-disk name, <label>.plist
func (d *Descriptor) FileName() string {
	return d.Label + ".plist"
}

// Write writes the rendered descriptor into dir, creating dir if needed,
// and returns the descriptor file's absolute path.
func (d *Descriptor) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, config.DefaultDirPermissions); err != nil {
		return "", errors.Wrapf(err, "create plist directory %s", dir)
	}

	path := filepath.Join(dir, d.FileName())
	if err := os.WriteFile(path, []byte(d.Content), 0o644); err != nil {
		return "", errors.Wrapf(err, "write descriptor %s", path)
	}

	return path, nil
}
