package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/hearthside/homesite/internal/site/app"
)

func main() {
	// A .env file is a convenience for local development only.
	_ = godotenv.Load()

	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
