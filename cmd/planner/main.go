package main

import (
	"os"

	"github.com/nhle/activity-planner/internal/cli"
)

func main() {
	// With no arguments open the interactive planner, like "planner tui".
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "tui")
	}
	os.Exit(cli.Execute())
}
