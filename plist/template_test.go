package plist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbillows/launchd-me/errors"
)

func fullSubstitutions() Substitutions {
	return Substitutions{
		Label:            "local.ldm.backup",
		Interpreter:      "/usr/bin/python3",
		ScriptPath:       "/Users/chris/scripts/backup.py",
		WorkingDirectory: "/Users/chris/scripts",
		ScheduleBlock:    "<key>StartInterval</key>\n\t<integer>300</integer>",
		StdoutLogPath:    "/Users/chris/launchd-me/logs/local.ldm.backup_std_out.log",
		StderrLogPath:    "/Users/chris/launchd-me/logs/local.ldm.backup_err.log",
	}
}

func TestRenderJobAllPlaceholders(t *testing.T) {
	content, err := RenderJob(fullSubstitutions())
	require.NoError(t, err)

	assert.Contains(t, content, "<string>local.ldm.backup</string>")
	assert.Contains(t, content, "<string>/usr/bin/python3</string>")
	assert.Contains(t, content, "<string>/Users/chris/scripts/backup.py</string>")
	assert.Contains(t, content, "<key>StartInterval</key>")
	assert.Contains(t, content, "local.ldm.backup_std_out.log")
	assert.Contains(t, content, "local.ldm.backup_err.log")
	// No placeholder survives a complete render
	assert.NotContains(t, content, "{{")
}

func TestRenderJobMissingPlaceholderNamesToken(t *testing.T) {
	subs := fullSubstitutions()
	subs.ScheduleBlock = ""

	_, err := RenderJob(subs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingSubstitution))
	assert.Contains(t, err.Error(), TokenScheduleBlock)
}

func TestRenderJobEachPlaceholderRequired(t *testing.T) {
	clear := []struct {
		name  string
		token string
		strip func(*Substitutions)
	}{
		{"label", TokenLabel, func(s *Substitutions) { s.Label = "" }},
		{"interpreter", TokenInterpreter, func(s *Substitutions) { s.Interpreter = "" }},
		{"script path", TokenScriptPath, func(s *Substitutions) { s.ScriptPath = "" }},
		{"working directory", TokenWorkingDirectory, func(s *Substitutions) { s.WorkingDirectory = "" }},
		{"stdout log", TokenStdoutLogPath, func(s *Substitutions) { s.StdoutLogPath = "" }},
		{"stderr log", TokenStderrLogPath, func(s *Substitutions) { s.StderrLogPath = "" }},
	}

	for _, tt := range clear {
		t.Run(tt.name, func(t *testing.T) {
			subs := fullSubstitutions()
			tt.strip(&subs)

			_, err := RenderJob(subs)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrMissingSubstitution))
			assert.Contains(t, err.Error(), tt.token)
		})
	}
}

func TestRenderIgnoresExtraValues(t *testing.T) {
	rendered, err := Render("<string>{{LABEL}}</string>", map[string]string{
		"LABEL":   "local.ldm.backup",
		"UNUSED":  "ignored",
		"ANOTHER": "also ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "<string>local.ldm.backup</string>", rendered)
}

func TestRenderIsPureTextSubstitution(t *testing.T) {
	// Substituted values are inserted verbatim; nothing is evaluated.
	rendered, err := Render("{{BLOCK}}", map[string]string{
		"BLOCK": "{{NESTED}} stays as-is",
	})
	require.NoError(t, err)
	assert.Equal(t, "{{NESTED}} stays as-is", rendered)
}

func TestRenderDeterministic(t *testing.T) {
	first, err := RenderJob(fullSubstitutions())
	require.NoError(t, err)
	second, err := RenderJob(fullSubstitutions())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
