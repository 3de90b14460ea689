package main

import (
	"os"

	"github.com/majorcontext/canexec/cmd/canexec/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
