package version

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Version information for the a68 front end.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	Major = "0"
	Minor = "3"
	Patch = "0"
	// Suffix is appended after the patch number ("-dev" for local builds).
	Suffix = "-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Plain returns the version without colour codes.
func Plain() string {
	return Major + "." + Minor + "." + Patch + Suffix
}

// Colored returns the version with each component coloured.
func Colored() string {
	return versionMajorColor.Sprint(Major) + "." + versionMinorColor.Sprint(Minor) + "." + versionPatchColor.Sprint(Patch) + Suffix
}

// Print writes the banner used by `a68 version`.
func Print(w io.Writer, colored bool) {
	v := Plain()
	if colored {
		v = Colored()
	}
	fmt.Fprintf(w, "a68 %s (Algol 68 front end)\n", v)
	if GitCommit != "" {
		fmt.Fprintf(w, "commit: %s\n", GitCommit)
	}
	if BuildDate != "" {
		fmt.Fprintf(w, "built:  %s\n", BuildDate)
	}
}
