package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/organvm/fmlint/internal/cli"
)

func main() {
	// A missing .env is normal; FMLINT_* variables may come from the shell.
	_ = godotenv.Load()

	os.Exit(cli.Execute())
}
