// Package ui provides the terminal color themes used by the CLI output.
// Colors are ANSI escape codes taken from the active Theme; the no-color
// theme turns every code into an empty string.
package ui
