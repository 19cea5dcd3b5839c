package main

import (
	"log"
	"os"
	"time"

	"github.com/palacios-io/attribution-api/internal/infrastructure/database"
	"github.com/palacios-io/attribution-api/internal/interfaces/http/middleware"
	"github.com/palacios-io/attribution-api/internal/interfaces/http/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, using system environment variables")
	}

	// Initialize database
	db, err := database.SetupDatabase()
	if err != nil {
		log.Fatalf("❌ Error setting up database: %v", err)
	}

	// Configure Fiber for better performance
	app := fiber.New(fiber.Config{
		Concurrency: 256 * 1024,
		// Prefork desabilitado: instável no container
		Prefork:      false,
		BodyLimit:    1 * 1024 * 1024, // payloads do snippet são pequenos
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	// Setup middleware
	middleware.SetupMiddlewares(app)

	// Setup routes
	routes.SetupRoutes(app, db)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Attribution API is running on port %s", port)
	log.Fatal(app.Listen(":" + port))
}
