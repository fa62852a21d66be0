package main

import (
	"log"
	"os"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/config"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/logger"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/routes"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database and seed defaults
	config.InitDB()
	config.Seed()

	// Setup Gin router
	r := routes.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server running at :%s", port)
	log.Fatal(r.Run("0.0.0.0:" + port))
}
