package main

import (
	"log"

	"app/ai"
	"app/config"
	"app/database"
	"app/handlers"
	"app/routes"
	"app/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if cfg.GeminiAPIKey == "" {
		log.Println("GEMINI_API_KEY is not set, AI insights will fall back to static text")
	}

	// Initialize database
	database.InitDB(cfg.DatabaseURL)
	defer database.CloseDB()

	pgStore := store.NewPgStore(database.GetDB())
	narrator := ai.NewGeminiNarrator(cfg.GeminiAPIKey, cfg.GeminiModel)
	aiHandler := handlers.NewAIHandler(ai.NewServices(pgStore, narrator))

	app := fiber.New()

	// Add CORS middleware
	app.Use(cors.New())

	// Setup routes
	routes.SetupRoutes(app, aiHandler)

	// Start server
	log.Fatal(app.Listen(":" + cfg.Port))
}
