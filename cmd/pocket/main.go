package main

import (
	"os"

	"github.com/pocketbank/pocketbank-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
