// Package output renders store results for the m8db command line.
//
// A Renderer writes entries, whole documents, status messages and errors to
// an io.Writer in one of four formats:
//
//	text  human readable lines, e.g. "Value for 'a': 1"
//	json  the raw value or document, indented with four spaces
//	yaml  the raw value or document as YAML
//	toml  the document as TOML; single values are wrapped as {key = value}
//
// Colour is applied through lipgloss using the style sheet in the styles
// subpackage. It is only enabled when the writer is a terminal, NO_COLOR is
// unset and the caller did not ask for plain output.
package output
