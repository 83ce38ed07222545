package main

import (
	"os"

	"github.com/marchcraft/drover/cmd"
)

func main() {
	if err := cmd.GetRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
