// Package main provides the entry point for the sunpy CLI tool.
package main

import "github.com/Physolia/sunpy/cmd/sunpy/cmd"

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
