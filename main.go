// Package main is the entry point for rustle-plan.
package main

import "github.com/rustle-plan/rustle-plan/cmd"

// Build-time variables (set via -ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	builtBy   = "manual"
)

func main() {
	cmd.Execute(version, commit, buildTime, builtBy)
}
