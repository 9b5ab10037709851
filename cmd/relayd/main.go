package main

import (
	"os"

	"github.com/opd-ai/relaycore/cmd/relayd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
