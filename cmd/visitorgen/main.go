package main

import (
	"os"

	"visitorgen/cmd/visitorgen/command"
)

func main() {
	if err := command.Root.Execute(); err != nil {
		os.Exit(1)
	}
}
