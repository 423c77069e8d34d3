// Package output renders sync reports.
//
// Three formats are supported: a styled terminal view, plain text and JSON.
// FormatAuto picks terminal output only when writing to a colour-capable
// TTY and NO_COLOR is unset. Terminal styles come from the embedded
// styles.yaml, which maps semantic names (Create, Delete, Fail, ...) to
// adaptive lipgloss colours.
package output
