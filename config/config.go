package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	PORT        string
	DB_URL      string
	CORS_ORIGIN string

	SESSION_SECRET      string
	ADMIN_PASSWORD_HASH string

	BLOB_BASE_URL string
	BLOB_TOKEN    string

	LOG_LEVEL  string
	LOG_FORMAT string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:3000")

	SESSION_SECRET = mustEnv("SESSION_SECRET")
	ADMIN_PASSWORD_HASH = mustEnv("ADMIN_PASSWORD_HASH")

	BLOB_BASE_URL = mustEnv("BLOB_BASE_URL")
	BLOB_TOKEN = mustEnv("BLOB_TOKEN")

	LOG_LEVEL = getEnv("LOG_LEVEL", "info")
	LOG_FORMAT = getEnv("LOG_FORMAT", "console")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
