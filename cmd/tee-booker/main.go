package main

import (
	"os"

	"github.com/pfrederiksen/tee-booker/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(cli.ExitError)
	}
}
