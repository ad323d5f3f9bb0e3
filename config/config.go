package config

import "os"

// Config holds application configuration loaded from the environment.
// This is a simple way to make config accessible globally.
type Config struct {
	Port         string
	DatabaseURL  string
	JWTSecret    string
	GeminiAPIKey string
	GeminiModel  string
}

// AppConfig holds the application-wide configuration
var AppConfig Config

// Load reads the configuration from environment variables. godotenv is
// expected to have populated the environment already (see main.go).
func Load() Config {
	AppConfig = Config{
		Port:         getEnv("PORT", "3000"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
	}
	return AppConfig
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
