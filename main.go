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

	"github.com/arnavdeep/vidtube-be/internal/api"
	"github.com/arnavdeep/vidtube-be/internal/auth"
	"github.com/arnavdeep/vidtube-be/internal/config"
	"github.com/arnavdeep/vidtube-be/internal/database"
	"github.com/arnavdeep/vidtube-be/internal/logger"
	"github.com/arnavdeep/vidtube-be/internal/media"
	"github.com/arnavdeep/vidtube-be/internal/services"
	"github.com/arnavdeep/vidtube-be/internal/storage"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		log.Fatal("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must be set")
	}

	// Ensure the staging directory for uploads exists
	if err := os.MkdirAll(cfg.TempUploadDir, 0755); err != nil {
		log.Fatalf("Failed to create temp upload directory: %v", err)
	}

	// Set up database
	client, err := database.New(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("Failed to disconnect from MongoDB: %v", err)
		}
	}()

	db := client.Database(cfg.MongoDatabase)
	if err := database.EnsureIndexes(db); err != nil {
		log.Fatalf("Failed to create database indexes: %v", err)
	}

	// Set up the media store
	mediaStore, err := media.NewS3Store(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}

	// Set up services
	userStore := storage.NewMongoUserStore(db)
	issuer := auth.NewTokenIssuer(userStore, cfg)
	userService := services.NewUserService(userStore, mediaStore)
	authService := services.NewAuthService(userStore, issuer)

	// Set up router
	router := api.NewRouter(cfg, issuer, userService, authService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
