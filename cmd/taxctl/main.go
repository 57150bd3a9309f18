package main

import (
	"os"

	"github.com/taxprep/backend/cmd/taxctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
