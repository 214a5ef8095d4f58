// Package plist renders launchd job descriptor documents.
//
// Rendering is pure text substitution against an embedded template: no
// conditionals, no loops. The schedule block arrives pre-rendered from the
// schedule package and is substituted as an opaque fragment. Semantic
// validation of the result is plutil's job, not this package's.
package plist

import (
	_ "embed"
	"regexp"
	"strings"

	"github.com/cbillows/launchd-me/errors"
)

//go:embed template/job.plist.tmpl
var jobTemplate string

// placeholderPattern matches {{TOKEN}} placeholders in a template
var placeholderPattern = regexp.MustCompile(`\{\{([A-Z_]+)\}\}`)

// Placeholder tokens recognized by the job template. Substitutions enumerates
// exactly these; a template token outside this set fails at render time.
const (
	TokenLabel            = "LABEL"
	TokenInterpreter      = "INTERPRETER"
	TokenScriptPath       = "SCRIPT_PATH"
	TokenWorkingDirectory = "WORKING_DIRECTORY"
	TokenScheduleBlock    = "SCHEDULE_BLOCK"
	TokenStdoutLogPath    = "STDOUT_LOG_PATH"
	TokenStderrLogPath    = "STDERR_LOG_PATH"
)

// Substitutions is the typed set of values the job template accepts.
// Every field maps to one placeholder token.
type Substitutions struct {
	Label            string
	Interpreter      string
	ScriptPath       string
	WorkingDirectory string
	ScheduleBlock    string
	StdoutLogPath    string
	StderrLogPath    string
}

// tokenValues maps set fields to their tokens. Empty fields are omitted so
// an incomplete Substitutions fails rendering with the unresolved token named
// instead of silently producing a broken descriptor.
func (s Substitutions) tokenValues() map[string]string {
	values := make(map[string]string)
	for token, value := range map[string]string{
		TokenLabel:            s.Label,
		TokenInterpreter:      s.Interpreter,
		TokenScriptPath:       s.ScriptPath,
		TokenWorkingDirectory: s.WorkingDirectory,
		TokenScheduleBlock:    s.ScheduleBlock,
		TokenStdoutLogPath:    s.StdoutLogPath,
		TokenStderrLogPath:    s.StderrLogPath,
	} {
		if value != "" {
			values[token] = value
		}
	}
	return values
}

// Render substitutes values into every {{TOKEN}} placeholder in template.
// A placeholder with no corresponding value fails with ErrMissingSubstitution
// naming the unresolved token. Values without a matching placeholder are
// ignored for forward compatibility.
func Render(template string, values map[string]string) (string, error) {
	var missing []string
	rendered := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		token := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := values[token]
		if !ok {
			missing = append(missing, token)
			return match
		}
		return value
	})

	if len(missing) > 0 {
		return "", errors.Wrapf(errors.ErrMissingSubstitution,
			"unresolved placeholder %s", strings.Join(missing, ", "))
	}

	return rendered, nil
}

// RenderJob renders the embedded job template with the given substitutions.
func RenderJob(subs Substitutions) (string, error) {
	return Render(jobTemplate, subs.tokenValues())
}
