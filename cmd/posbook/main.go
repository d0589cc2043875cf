package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/posbook-dev/posbook/internal/commands"
)

func main() {
	// Optional .env for POSBOOK_* overrides; absence is fine.
	_ = godotenv.Load()

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
