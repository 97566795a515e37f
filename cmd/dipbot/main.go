package main

import (
	"os"

	"github.com/rustyeddy/dipbot/cmd/dipbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
