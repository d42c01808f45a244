// Copyright © 2026 The Crisp authors

package main

import (
	"github.com/joho/godotenv"

	"github.com/crisp-analysis/crisp/cmd"
)

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()
	cmd.Execute()
}
