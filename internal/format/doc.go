// Package format holds pure string formatting helpers shared by the CLI.
package format
