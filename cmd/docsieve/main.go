package main

import (
	"os"

	"github.com/docsieve/docsieve/cmd/docsieve/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
