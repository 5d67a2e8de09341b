package main

import (
	"os"

	"github.com/shhdalk/tender-ai/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
