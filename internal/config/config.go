package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// StateMode selects where interaction state lives.
const (
	StateModeMemory  = "memory"  // in-process keyed store (default)
	StateModeMessage = "message" // round-tripped through the message footer
)

type AppConfig struct {
	BotToken          string `validate:"required"`
	OpenWeatherAPIKey string `validate:"required"`

	// HTTPTimeout bounds each outbound provider call.
	HTTPTimeout time.Duration

	// StateMode is "memory" or "message".
	StateMode string `validate:"oneof=memory message"`

	// SweepInterval controls how often expired interaction state is
	// dropped (memory mode only).
	SweepInterval time.Duration

	Port string
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		BotToken:          os.Getenv("BOT_TOKEN"),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		StateMode:         getenvDefault("STATE_MODE", StateModeMemory),
		Port:              getenvDefault("PORT", "8080"),
	}

	timeout, err := getenvDuration("HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	sweep, err := getenvDuration("SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.SweepInterval = sweep

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
