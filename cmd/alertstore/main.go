package main

import (
	"os"

	"roadwatch/cmd"
)

func main() {
	if err := cmd.RunAlertStore(); err != nil {
		os.Exit(1)
	}
}
