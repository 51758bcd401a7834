package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":8080")
	}
	if cfg.MetricsNamespace != "meeple" {
		t.Fatalf("MetricsNamespace = %q, want %q", cfg.MetricsNamespace, "meeple")
	}
	if cfg.ModelProvider != "auto" {
		t.Fatalf("ModelProvider = %q, want %q", cfg.ModelProvider, "auto")
	}
	if cfg.RetrievalTopN != 5 {
		t.Fatalf("RetrievalTopN = %d, want 5", cfg.RetrievalTopN)
	}
	if cfg.AnswerMaxTokens != 150 {
		t.Fatalf("AnswerMaxTokens = %d, want 150", cfg.AnswerMaxTokens)
	}
	if cfg.CaptureMaxRetries != 3 {
		t.Fatalf("CaptureMaxRetries = %d, want 3", cfg.CaptureMaxRetries)
	}
	if cfg.CaptureRetryDelay != 500*time.Millisecond {
		t.Fatalf("CaptureRetryDelay = %v, want 500ms", cfg.CaptureRetryDelay)
	}
	if cfg.CaptureRestartDelay != 100*time.Millisecond {
		t.Fatalf("CaptureRestartDelay = %v, want 100ms", cfg.CaptureRestartDelay)
	}
}

func TestLoadOverrides(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_BIND_ADDR", ":9090")
	t.Setenv("RETRIEVAL_TOP_N", "8")
	t.Setenv("CAPTURE_RETRY_DELAY", "250ms")
	t.Setenv("APP_ALLOW_ANY_ORIGIN", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":9090" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":9090")
	}
	if cfg.RetrievalTopN != 8 {
		t.Fatalf("RetrievalTopN = %d, want 8", cfg.RetrievalTopN)
	}
	if cfg.CaptureRetryDelay != 250*time.Millisecond {
		t.Fatalf("CaptureRetryDelay = %v, want 250ms", cfg.CaptureRetryDelay)
	}
	if !cfg.AllowAnyOrigin {
		t.Fatalf("AllowAnyOrigin = false, want true")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"bad provider", "MODEL_PROVIDER", "palm"},
		{"zero top n", "RETRIEVAL_TOP_N", "0"},
		{"negative tokens", "ANSWER_MAX_TOKENS", "-1"},
		{"hot temperature", "ANSWER_TEMPERATURE", "3.5"},
		{"unparsable delay", "CAPTURE_RETRY_DELAY", "soon"},
		{"short inactivity", "APP_SESSION_INACTIVITY_TIMEOUT", "1s"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setCoreEnvEmpty(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load() accepted %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestLoadGeminiProviderRequiresKey(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("MODEL_PROVIDER", "gemini")
	if _, err := Load(); err == nil {
		t.Fatalf("Load() accepted gemini provider without an API key")
	}

	t.Setenv("GEMINI_API_KEY", "test-key")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GeminiModelID != "gemini-1.5-flash-latest" {
		t.Fatalf("GeminiModelID = %q, want default", cfg.GeminiModelID)
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_SESSION_INACTIVITY_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"APP_ALLOW_ANY_ORIGIN",
		"MODEL_PROVIDER",
		"GEMINI_API_KEY",
		"GEMINI_MODEL_ID",
		"ANSWER_MAX_TOKENS",
		"ANSWER_TEMPERATURE",
		"RETRIEVAL_TOP_N",
		"CAPTURE_MAX_RETRIES",
		"CAPTURE_RETRY_DELAY",
		"CAPTURE_RESTART_DELAY",
		"SPEAK_RATE",
		"SPEAK_PITCH",
		"DATABASE_URL",
		"CHUNKS_SQLITE_PATH",
		"CHUNKS_FILE",
		"DEFAULT_GAME_ID",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}
