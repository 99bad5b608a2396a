package main

import (
	"os"

	"github.com/crivelaro/garimpo/cmd/garimpo/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
