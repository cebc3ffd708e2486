package main

import (
	"os"

	"github.com/tablekit/quicklinks/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
