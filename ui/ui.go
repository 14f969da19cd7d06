package ui

import (
	"encoding/json"
	"io"
)

// Severity classifies the visual weight of a piece of inline text. The
// terminal layer maps each value to a colour; data consumers (JSON,
// tests) see plain text.
type Severity uint8

const (
	SeverityInfo     Severity = iota // plain
	SeveritySuccess                  // green
	SeverityWarn                     // yellow
	SeverityError                    // red
	SeverityCritical                 // bold
)

// StyledText pairs a plain string with a Severity annotation. It
// marshals to JSON as just the plain text so machine output carries no
// ANSI codes. Pass it through [UI.Style] to get the coloured string for
// terminal rendering.
type StyledText struct {
	Text     string
	Severity Severity
}

func (s StyledText) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

// UI provides all terminal interaction for vaultis commands. Production
// code uses TerminalUI (stdout/stdin); tests use RecordingUI, which
// captures output and serves scripted inputs. Indent returns a child UI
// one level deeper sharing the same writer and reader, so nested prompt
// flows keep their ordering.
type UI interface {
	// Style returns the text of t coloured according to its Severity,
	// or unchanged when colours are disabled.
	Style(t StyledText) string

	// Info writes a neutral status line.
	Info(format string, args ...any)

	// Success writes a positive outcome in green.
	Success(format string, args ...any)

	// Warn writes a non-fatal warning in yellow.
	Warn(format string, args ...any)

	// Error writes a failure in red. It doesn't exit, callers decide
	// what to do next.
	Error(format string, args ...any)

	// Critical writes data the user must review before an irreversible
	// action, anything about a tx they are about to sign or just
	// broadcast. Rendered bold.
	Critical(format string, args ...any)

	// Section writes a visual separator centred around a title.
	Section(title string)

	// KeyValue renders an aligned label/value block, values left
	// aligned to the same column.
	KeyValue(rows [][2]string)

	// Table renders a bordered table with a header row followed by
	// data rows.
	Table(headers []string, rows [][]string)

	// TableWithGroups renders a bordered table where each group of
	// rows is separated from the next by a divider line, e.g. one
	// group per position.
	TableWithGroups(headers []string, groups [][][]string)

	// Spinner starts an animated spinner with msg and returns a stop
	// function to clear it. A no-op on non-terminal outputs.
	Spinner(msg string) func()

	// Interpret writes what vaultis understood from the user's last
	// input, indented and prefixed with an arrow.
	Interpret(value string)

	// Ask displays a "> " prompt and reads a line, looping until
	// validate returns nil. Pass nil to accept anything.
	Ask(validate func(string) error) string

	// Confirm asks a yes/no question and returns the answer. An empty
	// response takes the default.
	Confirm(prompt string, defaultYes bool) bool

	// Choose prints a numbered option list, prompts for a selection
	// and returns the 0-based index.
	Choose(prompt string, options []string) int

	// Indent returns a child UI one indent level deeper.
	Indent() UI

	// Writer returns an io.Writer that prepends the current
	// indentation to every line.
	Writer() io.Writer
}
