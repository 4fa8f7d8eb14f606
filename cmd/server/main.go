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

	"go-brandsite-app/internal/config"
	"go-brandsite-app/internal/content"
	"go-brandsite-app/internal/handler"
	"go-brandsite-app/internal/logger"
	"go-brandsite-app/internal/middleware"
	"go-brandsite-app/internal/service"
	"go-brandsite-app/internal/store"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log)

	// --- Document Store Initialization ---
	documentStore, closeStore, err := newDocumentStore(cfg)
	if err != nil {
		log.Fatal(err, "Failed to initialize document store")
	}
	defer closeStore()
	log.Info(fmt.Sprintf("Document store ready (driver: %s)", cfg.Store.Driver))

	// --- Dependency Injection and Handler Initialization ---
	// Initialize the application layers, injecting dependencies from top to bottom.
	mediaStore := store.NewFSMediaStore(cfg.Content.Root)
	rewriter := content.NewRewriter(mediaStore, nil, log)
	contentService := service.NewContentService(documentStore, rewriter, log)
	contentHandler := handler.NewContentHandler(contentService, log)
	errorMiddleware := middleware.Error(log)

	// --- Router Setup ---
	router := handler.NewRouter(contentHandler, errorMiddleware, cfg.Content.Root)

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}
	go func() {
		log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, "Could not start HTTP server")
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}

// newDocumentStore selects the backend from configuration. The filesystem
// store is the default; SQLite is the drop-in alternative behind the same
// interface.
func newDocumentStore(cfg *config.Config) (store.DocumentStore, func(), error) {
	switch cfg.Store.Driver {
	case "", "fs":
		return store.NewFSStore(cfg.Content.Root), func() {}, nil
	case "sqlite":
		s, err := store.NewSQLStore(cfg.Store.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
