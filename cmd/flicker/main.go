// Command flicker checks UI transition traces against scenario assertions.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/roach88/flicker/internal/cli"
)

func main() {
	if err := loadEnvFile(os.Getenv("FLICKER_ENV_FILE")); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading env file: %v\n", err)
		os.Exit(cli.ExitCommandError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// loadEnvFile loads file, or .env when file is empty. A missing default
// .env is not an error.
func loadEnvFile(file string) error {
	if file == "" {
		file = ".env"
	}
	if err := godotenv.Load(file); err != nil {
		if file == ".env" && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file '%s': %w", file, err)
	}
	return nil
}
