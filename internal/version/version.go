// Package version holds the binary version, overridden via ldflags at
// release time.
package version

var Version = "dev"
