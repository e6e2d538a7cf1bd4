// Package version holds build information for the idlimp CLI.
package version

import "github.com/fatih/color"

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Overridable at build time via -ldflags.
var (
	Major = "1"
	Minor = "0"
	Patch = "0"

	GitCommit = ""
	BuildDate = ""
)

// String returns the plain version, e.g. "1.0.0".
func String() string {
	return Major + "." + Minor + "." + Patch
}

// Colored returns the version with each component coloured; colour is
// suppressed when color.NoColor is set.
func Colored() string {
	return majorColor.Sprint(Major) + "." + minorColor.Sprint(Minor) + "." + patchColor.Sprint(Patch)
}

// Banner is the generated-file header naming the tool version.
func Banner() []string {
	return []string{
		"This file was generated by idlimp " + String() + ".",
		"Changes to this file may be lost when it is regenerated.",
	}
}
