package main

import (
	"os"

	"github.com/tillberg/autorestart"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/cli"
)

func main() {
	go autorestart.RestartOnChange()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
