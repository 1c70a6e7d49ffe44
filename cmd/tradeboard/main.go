package main

import (
	"os"

	"github.com/rustyeddy/tradeboard/cmd/tradeboard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
