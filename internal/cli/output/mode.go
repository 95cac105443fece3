// Package output renders command results for terminals, pipes and scripts.
//
// Output adapts to the environment: a terminal gets styled text, anything
// else gets Markdown, and --output json gives machine-readable output.
package output

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// OutputMode selects how results are written.
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Modes lists the accepted --output values.
var Modes = []string{string(ModeAuto), string(ModeText), string(ModeMarkdown), string(ModeJSON)}

// Mode converts a flag value to an OutputMode. Unknown values become ModeAuto.
func Mode(s string) OutputMode {
	m, err := ParseMode(s)
	if err != nil {
		return ModeAuto
	}
	return m
}

// ParseMode converts a flag value to an OutputMode.
func ParseMode(s string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "text":
		return ModeText, nil
	case "markdown", "md":
		return ModeMarkdown, nil
	case "json":
		return ModeJSON, nil
	}
	return ModeAuto, errors.Newf("unknown output mode %q (want one of %s)", s, strings.Join(Modes, ", "))
}
