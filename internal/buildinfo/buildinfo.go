// Package buildinfo exposes version metadata for the CLI. Values can be
// overridden at build time via -ldflags.
package buildinfo

import (
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version or custom string.
	Version = "dev"
	// Commit is the VCS commit hash (optional).
	Commit = ""
	// Date is the build time in RFC3339 or similar (optional).
	Date = ""
)

var versionColor = color.New(color.FgGreen, color.Bold)

// Summary returns a concise single-line version string.
func Summary() string {
	v := Version
	if v == "" {
		v = "dev"
	}

	parts := make([]string, 0, 2)
	if Commit != "" {
		c := Commit
		if len(c) > 7 {
			c = c[:7]
		}
		parts = append(parts, "commit="+c)
	}
	if Date != "" {
		parts = append(parts, "date="+Date)
	}
	if len(parts) > 0 {
		v += " (" + strings.Join(parts, ", ") + ")"
	}
	return v
}

// Colored returns Summary with the version highlighted. fatih/color drops
// the escape codes when stdout is not a terminal.
func Colored() string {
	return versionColor.Sprint(Summary())
}
