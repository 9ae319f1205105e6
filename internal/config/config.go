// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Model configures one role of the generative model: chat, extraction or generation.
type Model struct {
	Name        string
	Temperature float64
	MaxTokens   int
}

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StoreDriver selects the persistence backend: "mongo" (default) or "postgres".
	StoreDriver string

	// MongoURI and MongoDatabase are required when StoreDriver is "mongo".
	MongoURI      string
	MongoDatabase string

	// DatabaseURL is the Postgres connection string, required when StoreDriver is "postgres".
	DatabaseURL string

	// LLMAPIKey authenticates against the OpenAI-compatible endpoint at LLMBaseURL. Required.
	LLMAPIKey  string
	LLMBaseURL string
	LLMTimeout time.Duration

	ChatModel       Model
	ExtractionModel Model
	GenerationModel Model

	// Upstream keys for the agent tools and place lookups. Each is optional;
	// a missing key turns the matching tool into an error payload.
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	RapidAPIKey       string
	GoogleMapsAPIKey  string

	// RedisURL enables the shared place lookup cache when set.
	RedisURL string

	// RateLimitRPS and RateLimitBurst bound the per-client rate of the generative routes.
	RateLimitRPS   float64
	RateLimitBurst int

	// MaxBodyBytes caps the size of request bodies.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, and any
// variables whose values cannot be parsed.
func Load() (Config, error) {
	p := &parser{}

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getEnv("MONGO_DATABASE", "TripLLM"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),

		LLMAPIKey:  getEnv("LLM_API_KEY", os.Getenv("TOGETHER_API_KEY")),
		LLMBaseURL: getEnv("LLM_BASE_URL", "https://api.together.xyz/v1"),
		LLMTimeout: p.duration("LLM_TIMEOUT", 60*time.Second),

		ChatModel:       p.model("CHAT", "deepseek-ai/DeepSeek-V3", 0.2, 2048),
		ExtractionModel: p.model("EXTRACTION", "meta-llama/Llama-3.3-70B-Instruct-Turbo-Free", 0.7, 512),
		GenerationModel: p.model("GENERATION", "deepseek-ai/DeepSeek-V3", 0.7, 4096),

		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		WeatherAPIKey:     os.Getenv("WEATHERAPI_API_KEY"),
		RapidAPIKey:       os.Getenv("RAPIDAPI_KEY"),
		GoogleMapsAPIKey:  os.Getenv("GOOGLE_MAPS_API_KEY"),
		RedisURL:          os.Getenv("REDIS_URL"),

		RateLimitRPS:   p.float("RATE_LIMIT_RPS", 1),
		RateLimitBurst: p.int("RATE_LIMIT_BURST", 5),
		MaxBodyBytes:   int64(p.int("MAX_BODY_BYTES", 1<<20)),
	}

	var missing []string

	switch cfg.StoreDriver {
	case DriverMongo:
		if cfg.MongoURI == "" {
			missing = append(missing, "MONGO_URI")
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	default:
		p.invalid = append(p.invalid, "STORE_DRIVER")
	}

	if cfg.LLMAPIKey == "" {
		missing = append(missing, "LLM_API_KEY")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if len(p.invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(p.invalid, ", "))
	}

	return cfg, nil
}

// parser collects the names of variables whose values fail to parse so that
// Load can report all of them at once.
type parser struct {
	invalid []string
}

func (p *parser) model(prefix, name string, temperature float64, maxTokens int) Model {
	return Model{
		Name:        getEnv(prefix+"_MODEL", name),
		Temperature: p.float(prefix+"_TEMPERATURE", temperature),
		MaxTokens:   p.int(prefix+"_MAX_TOKENS", maxTokens),
	}
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return d
}

func (p *parser) float(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return f
}

func (p *parser) int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return n
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
