package main

import (
	"os"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
