package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/poly1603/ldesign-changelog/internal/cli"
)

func main() {
	// Optional .env for CHANGELOG_* overrides in local development.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
