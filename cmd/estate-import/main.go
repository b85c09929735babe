package main

import (
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/bcre/estate-import/internal/cli"
	_ "github.com/bcre/estate-import/internal/core/entities" // Register entity definitions
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cli.Execute()
}
