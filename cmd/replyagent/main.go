package main

import (
	"github.com/joho/godotenv"

	"github.com/nklarmann/replyagent/internal/adapters/driving/cli"
)

func main() {
	// Optional; environment variables win over a missing .env file.
	_ = godotenv.Load()

	cli.Execute()
}
