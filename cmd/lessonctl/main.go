package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/studyhall/lesson-booking-service/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
