package main

import (
	"os"

	"github.com/relmap-labs/relmap/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
