package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/config"
	"taskboard/handlers"
	"taskboard/logging"
	"taskboard/repositories"
	"taskboard/services"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: %v", err)
	}
	logging.InitLogger(logging.Options{SystemName: "taskboard", File: cfg.LogFile, Level: cfg.LogLevel})
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting taskboard service...")

	store, closeStore := openStore(cfg)
	defer closeStore()

	var blackList map[string]bool
	if cfg.PasswordBlackList != "" {
		if blackList, err = services.LoadPasswordBlackList(cfg.PasswordBlackList); err != nil {
			logging.Logger.Fatalf("Event ID: BLACKLIST_LOAD_FAILED, Description: Failed to load password blacklist %s: %v", cfg.PasswordBlackList, err)
		}
		logging.Logger.Infof("Event ID: BLACKLIST_LOADED, Description: Loaded %d blacklisted passwords", len(blackList))
	}

	users := services.NewUserService(store.Users, blackList, services.SystemClock)
	if cfg.AdminEmail != "" {
		seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_, err := users.EnsureAdmin(seedCtx, cfg.AdminEmail, cfg.AdminPassword)
		cancel()
		if err != nil {
			logging.Logger.Fatalf("Event ID: ADMIN_BOOTSTRAP_FAILED, Description: Failed to seed admin %s: %v", cfg.AdminEmail, err)
		}
	}
	router := handlers.NewRouter(handlers.Services{
		Tasks:    services.NewTaskService(store.Tasks, services.SystemClock),
		Projects: services.NewProjectService(store.Projects, store.Tasks, services.SystemClock),
		Users:    users,
		Auth:     services.NewAuthService(users, []byte(cfg.JWTSecret)),
	}, handlers.RouterOptions{JWTSecret: []byte(cfg.JWTSecret), CORSOrigin: cfg.CORSOrigin})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s (store: %s)", cfg.Addr(), cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logging.Logger.Info("Event ID: SERVER_SHUTDOWN, Description: Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_SHUTDOWN_ERROR, Description: Graceful shutdown failed: %v", err)
	}
}

func openStore(cfg *config.Config) (*repositories.Store, func()) {
	if cfg.StoreDriver == config.StoreMemory {
		logging.Logger.Warn("Event ID: STORE_MEMORY, Description: Using the in-memory store; data is lost on exit")
		return repositories.NewMemoryStore(), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, disconnect, err := repositories.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	return store, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := disconnect(ctx); err != nil {
			logging.Logger.Errorf("Event ID: DB_DISCONNECT_FAILED, Description: %v", err)
		}
	}
}
