package main

import (
	"os"

	"github.com/wayneh/stocklens/cmd/stocklens/commands"
)

// main is the entry point for the stocklens CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
