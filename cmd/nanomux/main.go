package main

import (
	"os"

	"github.com/Altius/stampipes/programs/nanomux/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
