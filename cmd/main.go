package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/scrapstack/hardware-prices-backend/internal/app"
)

func main() {
	// Same contract as the scraper side: a local .env is optional.
	_ = godotenv.Load()

	application, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	addr := ":" + application.Cfg.Port
	application.Log.Info("Server listening", "addr", addr, "source", application.Cfg.SourceBackend)
	if err := application.Run(addr); err != nil {
		application.Log.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
