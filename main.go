package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebaseapp "firebase.google.com/go/v4"

	"deadline-tracker/config"
	"deadline-tracker/database"
	"deadline-tracker/firebase"
	"deadline-tracker/handlers"
	"deadline-tracker/memstore"
	"deadline-tracker/models"
	"deadline-tracker/services"
	"deadline-tracker/utilities"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	utilities.InitLogger(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		utilities.LogError(err, "Server stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	var app *firebaseapp.App
	if cfg.Store.Backend == config.BackendFirestore || cfg.Auth.Required {
		var err error
		app, err = firebase.InitializeFirebase(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsPath)
		if err != nil {
			return err
		}
	}

	store, closer, err := openStore(ctx, cfg, app)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := store.EnsureCollection(ctx); err != nil {
		return err
	}

	var verifier firebase.TokenVerifier
	if cfg.Auth.Required {
		authClient, err := firebase.GetAuthClient(ctx, app)
		if err != nil {
			return err
		}
		verifier = authClient
		utilities.LogInfo("Firebase ID token authentication enabled")
	}

	service := services.NewDeadlineService(store)
	router := NewRouter(handlers.NewDeadlineHandlers(service), cfg.Server, verifier)
	return serve(ctx, cfg.Server, router)
}

// openStore builds the configured backend. The returned closer releases the
// underlying client.
func openStore(ctx context.Context, cfg *config.Config, app *firebaseapp.App) (models.DeadlineStore, io.Closer, error) {
	switch cfg.Store.Backend {
	case config.BackendFirestore:
		client, err := firebase.GetFirestoreClient(ctx, app)
		if err != nil {
			return nil, nil, err
		}
		utilities.LogInfo("Using Firestore collection %s", cfg.Firestore.Collection)
		return firebase.NewDeadlineStore(client, cfg.Firestore.Collection), client, nil
	case config.BackendPostgres:
		db, err := database.ConnectPostgres(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		utilities.LogInfo("Using PostgreSQL table %s", cfg.Postgres.Table)
		return database.NewDeadlineStore(db, cfg.Postgres.Table), db, nil
	case config.BackendMemory:
		utilities.LogWarn("Using in-memory store; deadlines are lost on restart")
		return memstore.New(), io.NopCloser(nil), nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func serve(ctx context.Context, cfg config.ServerConfig, handler http.Handler) error {
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeoutDuration(),
		WriteTimeout: cfg.WriteTimeoutDuration(),
		IdleTimeout:  cfg.IdleTimeoutDuration(),
	}

	errCh := make(chan error, 1)
	go func() {
		utilities.LogInfo("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	utilities.LogInfo("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
