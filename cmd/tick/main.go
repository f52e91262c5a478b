package main

import (
	"os"

	"github.com/tgienger/tick/internal/cli"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	info := cli.BuildInfo{Version: version, Commit: commit, Date: date}
	if err := cli.Execute(info); err != nil {
		os.Exit(1)
	}
}
