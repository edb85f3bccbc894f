package main

import (
	"os"

	"cryptosim/cmd/cryptosim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
