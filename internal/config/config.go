package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the rules assistant service.
type Config struct {
	BindAddr                 string
	ShutdownTimeout          time.Duration
	SessionInactivityTimeout time.Duration
	MetricsNamespace         string

	AllowAnyOrigin bool

	ModelProvider string

	GeminiAPIKey  string
	GeminiModelID string

	AnswerMaxTokens   int
	AnswerTemperature float64
	RetrievalTopN     int

	CaptureMaxRetries   int
	CaptureRetryDelay   time.Duration
	CaptureRestartDelay time.Duration
	SpeakRate           float64
	SpeakPitch          float64

	DatabaseURL   string
	ChunksSQLite  string
	ChunksFile    string
	DefaultGameID string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "meeple"),
		AllowAnyOrigin:   false,
		ModelProvider:    envOrDefault("MODEL_PROVIDER", "auto"),
		GeminiAPIKey:     stringsTrimSpace("GEMINI_API_KEY"),
		GeminiModelID:    envOrDefault("GEMINI_MODEL_ID", "gemini-1.5-flash-latest"),
		AnswerMaxTokens:  150,
		// Low temperature keeps rules answers close to the excerpts.
		AnswerTemperature:        0.3,
		RetrievalTopN:            5,
		CaptureMaxRetries:        3,
		CaptureRetryDelay:        500 * time.Millisecond,
		CaptureRestartDelay:      100 * time.Millisecond,
		SpeakRate:                1.0,
		SpeakPitch:               1.0,
		DatabaseURL:              stringsTrimSpace("DATABASE_URL"),
		ChunksSQLite:             stringsTrimSpace("CHUNKS_SQLITE_PATH"),
		ChunksFile:               envOrDefault("CHUNKS_FILE", "data/chunks.json"),
		DefaultGameID:            envOrDefault("DEFAULT_GAME_ID", ""),
		ShutdownTimeout:          15 * time.Second,
		SessionInactivityTimeout: 2 * time.Minute,
	}
	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionInactivityTimeout, err = durationFromEnv("APP_SESSION_INACTIVITY_TIMEOUT", cfg.SessionInactivityTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	cfg.AnswerMaxTokens, err = intFromEnv("ANSWER_MAX_TOKENS", cfg.AnswerMaxTokens)
	if err != nil {
		return Config{}, err
	}
	cfg.AnswerTemperature, err = floatFromEnv("ANSWER_TEMPERATURE", cfg.AnswerTemperature)
	if err != nil {
		return Config{}, err
	}
	cfg.RetrievalTopN, err = intFromEnv("RETRIEVAL_TOP_N", cfg.RetrievalTopN)
	if err != nil {
		return Config{}, err
	}

	cfg.CaptureMaxRetries, err = intFromEnv("CAPTURE_MAX_RETRIES", cfg.CaptureMaxRetries)
	if err != nil {
		return Config{}, err
	}
	cfg.CaptureRetryDelay, err = durationFromEnv("CAPTURE_RETRY_DELAY", cfg.CaptureRetryDelay)
	if err != nil {
		return Config{}, err
	}
	cfg.CaptureRestartDelay, err = durationFromEnv("CAPTURE_RESTART_DELAY", cfg.CaptureRestartDelay)
	if err != nil {
		return Config{}, err
	}
	cfg.SpeakRate, err = floatFromEnv("SPEAK_RATE", cfg.SpeakRate)
	if err != nil {
		return Config{}, err
	}
	cfg.SpeakPitch, err = floatFromEnv("SPEAK_PITCH", cfg.SpeakPitch)
	if err != nil {
		return Config{}, err
	}

	switch cfg.ModelProvider {
	case "auto", "gemini", "mock":
	default:
		return Config{}, fmt.Errorf("MODEL_PROVIDER must be auto, gemini, or mock")
	}
	if cfg.ModelProvider == "gemini" && cfg.GeminiAPIKey == "" {
		return Config{}, fmt.Errorf("MODEL_PROVIDER=gemini requires GEMINI_API_KEY")
	}
	if cfg.SessionInactivityTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_INACTIVITY_TIMEOUT must be at least 5s")
	}
	if cfg.AnswerMaxTokens <= 0 {
		return Config{}, fmt.Errorf("ANSWER_MAX_TOKENS must be positive")
	}
	if cfg.AnswerTemperature < 0 || cfg.AnswerTemperature > 2 {
		return Config{}, fmt.Errorf("ANSWER_TEMPERATURE must be between 0 and 2")
	}
	if cfg.RetrievalTopN <= 0 {
		return Config{}, fmt.Errorf("RETRIEVAL_TOP_N must be positive")
	}
	if cfg.CaptureMaxRetries <= 0 {
		return Config{}, fmt.Errorf("CAPTURE_MAX_RETRIES must be positive")
	}
	if cfg.SpeakRate <= 0 || cfg.SpeakPitch <= 0 {
		return Config{}, fmt.Errorf("SPEAK_RATE and SPEAK_PITCH must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
