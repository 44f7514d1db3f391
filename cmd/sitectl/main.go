package main

import (
	"os"

	"sitekit/cmd/sitectl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
