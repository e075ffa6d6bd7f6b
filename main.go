package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/reelcast/orchestrator/internal/adapter/notify"
	"github.com/reelcast/orchestrator/internal/adapter/render"
	"github.com/reelcast/orchestrator/internal/adapter/scriptgen"
	"github.com/reelcast/orchestrator/internal/adapter/search"
	"github.com/reelcast/orchestrator/internal/adapter/voice"
	"github.com/reelcast/orchestrator/internal/config"
	"github.com/reelcast/orchestrator/internal/policy"
	"github.com/reelcast/orchestrator/internal/service"
	"github.com/reelcast/orchestrator/internal/storage"
	"github.com/reelcast/orchestrator/internal/store"
	v1 "github.com/reelcast/orchestrator/internal/transport/http/v1"
)

func main() {
	// Load .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting pipeline orchestrator...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Snippet Database: %s", cfg.DatabaseURL)
	log.Printf("Render Service: %s", cfg.RenderServiceURL)

	// Snippet search backend
	searcher, err := search.NewSQLiteSearcher(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open snippet database: %v", err)
	}
	defer searcher.Close()

	// Collaborator clients
	scriptGen := scriptgen.NewGenerator(cfg.ScriptServiceURL, cfg.ScriptAPIKey, cfg.CallTimeout)
	synthesizer := voice.NewClient(cfg.VoiceServiceURL, cfg.VoiceAPIKey, cfg.VoiceID, cfg.CallTimeout)
	renderer := render.NewClient(cfg.RenderServiceURL, cfg.RenderAPIKey, cfg.CallTimeout)
	notifier := notify.NewClient(cfg.NotifyURL, cfg.NotifyTimeout)

	// Local assets
	presenters := storage.NewPresenters(cfg.PresentersDir)
	artifacts := storage.NewArtifacts(cfg.ArtifactsDir)

	// Admission policy
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Session store with background expiry sweep
	sessions := store.NewMemoryStore(cfg.SessionTTL)
	go sessions.RunSweeper(ctx, cfg.SweepInterval)

	svc := service.New(sessions, searcher, scriptGen, synthesizer, renderer, notifier, presenters, artifacts, policyEngine, cfg)

	h := v1.NewHandler(svc)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down orchestrator...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Orchestrator stopped")
}
