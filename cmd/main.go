package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"todo-web/internal/api"
	"todo-web/internal/auth"
	"todo-web/internal/config"
	"todo-web/internal/session"
	"todo-web/internal/todo"
	"todo-web/internal/web"
	"todo-web/middleware"
)

var (
	infoLogger  = log.New(os.Stdout, "", log.LstdFlags)
	errorLogger = log.New(os.Stderr, "", log.LstdFlags)
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		errorLogger.Fatalf("Failed to load configuration: %v", err)
	}

	infoLogger.Printf("Starting todo web frontend - Process ID: %d", os.Getpid())
	infoLogger.Printf("Remote API: %s", cfg.APIBaseURL)

	sessions := session.NewStore(cfg.SessionSecret)

	// Two clients against the same base URL: anonymous for the auth
	// endpoints, token-sourcing for everything else.
	anonClient := api.NewClient(cfg.APIBaseURL)
	authClient := api.NewAuthClient(cfg.APIBaseURL, session.ContextTokens{})

	authService := auth.NewAuthService(anonClient)
	todoService := todo.NewTodoService(authClient)

	webHandler := web.NewWebHandler(authService, todoService, sessions, cfg)
	router := webHandler.SetupRoutes(middleware.NewMiddleware(sessions))

	handler := middleware.RecoveryMiddleware(errorLogger,
		middleware.LoggingMiddleware(os.Stdout,
			middleware.NoStore(router)))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		infoLogger.Printf("Server is starting on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errorLogger.Fatalf("Server ListenAndServe error: %v", err)
		}
	}()

	waitForShutdown(server)
}

func waitForShutdown(server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	<-stop
	infoLogger.Println("Shutting down the server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		errorLogger.Printf("Server Shutdown error: %v", err)
		os.Exit(1)
	}
	infoLogger.Println("Server stopped")
}
