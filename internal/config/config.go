package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Platform identifies which storage backend the process binds to.
// It is resolved once in FromEnv and never re-evaluated mid-session.
type Platform string

const (
	PlatformNetworked Platform = "networked"
	PlatformEmbedded  Platform = "embedded"
)

type Config struct {
	Platform Platform
	HTTPAddr string

	DBDriver string
	DBDSN    string

	// Base URL of the networked backend API (networked platform only).
	ServerURL string

	GenAIBaseURL string
	GenAIAPIKey  string
	GenAIModel   string
	GenAITimeout time.Duration

	CORSOrigins []string
}

func FromEnv() Config {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	serverURL := os.Getenv("SERVER_URL")
	platform := Platform(os.Getenv("PLATFORM"))
	if platform == "" {
		if serverURL != "" {
			platform = PlatformNetworked
		} else {
			platform = PlatformEmbedded
		}
	}

	return Config{
		Platform:     platform,
		HTTPAddr:     envOr("HTTP_ADDR", ":8080"),
		DBDriver:     envOr("DB_DRIVER", "sqlite"),
		DBDSN:        envOr("DB_DSN", ""),
		ServerURL:    serverURL,
		GenAIBaseURL: envOr("GENAI_BASE_URL", "https://api.openai.com/v1"),
		GenAIAPIKey:  os.Getenv("GENAI_API_KEY"),
		GenAIModel:   envOr("GENAI_MODEL", "gpt-4o-mini"),
		GenAITimeout: time.Duration(envInt("GENAI_TIMEOUT", 90)) * time.Second,
		CORSOrigins:  csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
