package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/antoniostano/meeple/internal/answer"
	"github.com/antoniostano/meeple/internal/config"
	"github.com/antoniostano/meeple/internal/httpapi"
	"github.com/antoniostano/meeple/internal/observability"
	"github.com/antoniostano/meeple/internal/rulebook"
	"github.com/antoniostano/meeple/internal/session"
)

func main() {
	// Optional .env for local development; real deployments set env directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	source, err := rulebook.NewSource(ctx, cfg.DatabaseURL, cfg.ChunksSQLite, cfg.ChunksFile)
	if err != nil {
		log.Fatalf("chunk source init failed: %v", err)
	}
	defer source.Close()

	chunks, err := source.LoadChunks(ctx)
	if err != nil {
		log.Fatalf("loading rulebook chunks failed: %v", err)
	}
	store, err := rulebook.NewStore(chunks)
	if err != nil {
		log.Fatalf("rulebook store init failed: %v", err)
	}
	log.Printf("loaded %d chunks for %d games", store.Len(), len(store.Games()))

	var model answer.ModelClient

	modelMode := strings.ToLower(strings.TrimSpace(cfg.ModelProvider))
	if modelMode == "" {
		modelMode = "auto"
	}

	tryGemini := func() bool {
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			return false
		}
		client, err := answer.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			log.Fatalf("gemini client init failed: %v", err)
		}
		model = client
		log.Printf("model provider: gemini (%s)", cfg.GeminiModelID)
		return true
	}

	switch modelMode {
	case "gemini":
		if !tryGemini() {
			log.Fatalf("MODEL_PROVIDER=gemini but GEMINI_API_KEY is not set")
		}
	case "mock":
		model = answer.NewMockModelClient()
		log.Printf("model provider: mock")
	case "auto":
		if !tryGemini() {
			model = answer.NewMockModelClient()
			log.Printf("model provider: mock (no gemini key)")
		}
	default:
		log.Fatalf("invalid MODEL_PROVIDER: %q (expected auto|gemini|mock)", cfg.ModelProvider)
	}
	defer model.Close()

	composer := answer.NewComposer(store, model, answer.ComposerConfig{
		TopN:            cfg.RetrievalTopN,
		MaxOutputTokens: cfg.AnswerMaxTokens,
		Temperature:     cfg.AnswerTemperature,
	}, metrics)

	sessions := session.NewManager(cfg.SessionInactivityTimeout)
	sessions.SetExpireHook(func(_ *session.Session) {
		metrics.SessionEvents.WithLabelValues("expired").Inc()
		metrics.ActiveSessions.Set(float64(sessions.ActiveCount()))
	})

	api := httpapi.New(cfg, sessions, store, composer, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	sessions.StartJanitor(runCtx, 5*time.Second)

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
