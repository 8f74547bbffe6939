package main

import (
	"github.com/joho/godotenv"

	"github.com/iliyamo/combat-tiers/internal/cli"
)

func main() {
	_ = godotenv.Load()
	cli.Execute()
}
