package main

import (
	"os"

	"github.com/msto63/asmfmt/cmd/asmfmt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
