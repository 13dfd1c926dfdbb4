// Package buildinfo stores build-time metadata shared across packages.
package buildinfo

import "fmt"

// Set via ldflags during build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build metadata in a form the version command can encode.
type Info struct {
	Version string `json:"version" yaml:"version" toml:"version"`
	Commit  string `json:"commit" yaml:"commit" toml:"commit"`
	Date    string `json:"date" yaml:"date" toml:"date"`
}

// Current returns the metadata baked into this binary.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String renders the one-line version banner.
func (i Info) String() string {
	return fmt.Sprintf("chaos %s (%s, built %s)", i.Version, i.Commit, i.Date)
}
