package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/peiassist/backend/internal/config"
	"github.com/peiassist/backend/internal/data/db"
	"github.com/peiassist/backend/internal/data/repos"
	"github.com/peiassist/backend/internal/http/handlers"
	"github.com/peiassist/backend/internal/platform/envutil"
	"github.com/peiassist/backend/internal/platform/groq"
	"github.com/peiassist/backend/internal/platform/logger"
	"github.com/peiassist/backend/internal/server"
	"github.com/peiassist/backend/internal/services"
)

func main() {
	cfg, cfgErr := config.Load(envutil.String("CONFIG_PATH", "pei-assistant.yaml"))

	log, err := logger.New(cfg.Server.Mode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	if cfgErr != nil {
		log.Fatal("Could not load config", "error", cfgErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	sqliteService, err := db.NewSQLiteService(log, cfg.Storage.Path)
	if err != nil {
		log.Fatal("SQLite init failed", "error", err)
	}
	gdb := sqliteService.DB()
	if err := db.AutoMigrateAll(gdb); err != nil {
		log.Fatal("Auto migration failed", "error", err)
	}

	// Repos
	peiRepo := repos.NewPeiRepo(gdb, log)
	activityRepo := repos.NewActivityRepo(gdb, log)
	ragFileRepo := repos.NewRagFileRepo(gdb, log)

	// Services
	groqClient, err := groq.NewClient(log, groq.Options{
		APIKey:      os.Getenv("GROQ_API_KEY"),
		BaseURL:     cfg.Model.Endpoint,
		Model:       cfg.Model.Name,
		Temperature: &cfg.Model.Temperature,
		MaxTokens:   &cfg.Model.MaxTokens,
		Timeout:     cfg.Model.Timeout,
	})
	if err != nil {
		log.Fatal("Could not init Groq client", "error", err)
	}

	dispatcher := services.NewAIDispatcher(log, groqClient, cfg.Model.MinRequestSpacing)
	dispatcher.Start(ctx)

	draft := services.NewPeiDraft()
	storageService := services.NewStorageService(gdb, log, peiRepo, activityRepo, ragFileRepo)
	editorService := services.NewPeiEditorService(log, dispatcher, draft, storageService)
	autosaveService := services.NewAutosaveService(log, draft, storageService, cfg.Autosave.Interval, cfg.Autosave.SavedHold)
	autosaveService.Start(ctx)

	// HTTP surface
	router := server.NewRouter(server.RouterConfig{
		PeiHandler:      handlers.NewPeiHandler(log, editorService, storageService, autosaveService),
		ActivityHandler: handlers.NewActivityHandler(log, storageService),
		RagFileHandler:  handlers.NewRagFileHandler(log, storageService),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("Server exited", "error", err)
	}
	log.Info("Shutdown complete")
}
