package main

import (
	"os"

	"github.com/bnema/microcosmos/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
