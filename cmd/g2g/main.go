package main

import (
	"os"

	"github.com/wonny/g2g/cmd/g2g/commands"
)

// main is the entry point for the G2G CLI
// ⭐ Unified CLI entry point: go run ./cmd/g2g [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
