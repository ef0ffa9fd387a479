package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/vrd07/ai-tutor1/internal/app"
	"github.com/vrd07/ai-tutor1/internal/config"
	"github.com/vrd07/ai-tutor1/internal/server"
	"github.com/vrd07/ai-tutor1/internal/storage"
	"github.com/vrd07/ai-tutor1/internal/store"
	"github.com/vrd07/ai-tutor1/internal/util"
	"github.com/vrd07/ai-tutor1/pkg/ai"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to load config: %v\n", err)
		os.Exit(1)
	}

	util.InitLogger(cfg.LogLevel)

	dataStore, err := store.NewGormStore(cfg.DatabaseURL)
	if err != nil {
		util.Fatal("failed to init postgres store", "err", err)
	}
	files, err := storage.NewFileStore(cfg.UploadsDir)
	if err != nil {
		util.Fatal("failed to init uploads dir", "err", err)
	}
	tutor := ai.NewTutor(ai.NewOllamaClient(cfg.OllamaBaseURL), cfg.GenerationModel, cfg.QuizModel)

	appCore, err := app.New(app.Config{
		Store:     dataStore,
		Generator: tutor,
		Files:     files,
	})
	if err != nil {
		util.Fatal("failed to init app", "err", err)
	}

	httpServer := server.New(server.Config{
		App:            appCore,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:        addr,
		Handler:     httpServer.Router(),
		ReadTimeout: 15 * time.Second,
		// Generation calls can run long; the write timeout must outlast the
		// Ollama client timeout.
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("tutor server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "err", err)
	}
}
