package main

import (
	"fmt"
	"os"

	"docchat/cmd"
)

const (
	Version = "v0.1.0"
	License = "Apache-2.0"
)

func main() {
	if err := cmd.Execute(Version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
