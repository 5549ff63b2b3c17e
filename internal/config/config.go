package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config aggregates the server settings. Every value has a development
// default so the binary runs with no environment at all.
type Config struct {
	Port          string
	LoginUser     string
	LoginPass     string
	SessionSecret string
	ReceitaWSURL  string
}

// Load reads the optional .env file and then the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "9595"),
		LoginUser:     getEnv("LOGIN_USER", "user"),
		LoginPass:     getEnv("LOGIN_PASS", "cnpj2024"),
		SessionSecret: getEnv("SESSION_SECRET", "busca-cnpj-em-lote-session-secret"),
		ReceitaWSURL:  getEnv("RECEITAWS_URL", "https://www.receitaws.com.br"),
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
