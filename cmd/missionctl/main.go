// Package main is the entry point for the missionctl CLI.
package main

import (
	"os"

	"github.com/missionctl/missionctl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
