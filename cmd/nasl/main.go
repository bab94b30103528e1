package main

import (
	"os"

	"github.com/v0rts/openvas-scanner/cmd/nasl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
