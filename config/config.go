package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// JwtKey signs and verifies the auth_token cookie.
var JwtKey []byte

// LoadEnv reads .env (if present) and required secrets into package vars.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, relying on process environment")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Error("environment variable JWT_SECRET is not set")
		os.Exit(1)
	}
	JwtKey = []byte(secret)
}
