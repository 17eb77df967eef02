package main

import (
	"os"

	"github.com/jotunheim-mc/website/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
