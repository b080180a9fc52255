package main

import (
	"os"

	"roadwatch/cmd"
)

func main() {
	if err := cmd.RunGateway(); err != nil {
		os.Exit(1)
	}
}
