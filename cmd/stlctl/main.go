package main

import (
	"os"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
