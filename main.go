package main

import (
	// standard library
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// third-party
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	// internal
	"github.com/rmitchellscott/bannermaster/internal/config"
	"github.com/rmitchellscott/bannermaster/internal/database"
	"github.com/rmitchellscott/bannermaster/internal/editor"
	"github.com/rmitchellscott/bannermaster/internal/handlers"
	"github.com/rmitchellscott/bannermaster/internal/logging"
	"github.com/rmitchellscott/bannermaster/internal/middleware"
	"github.com/rmitchellscott/bannermaster/internal/pollers"
	"github.com/rmitchellscott/bannermaster/internal/rendering"
	"github.com/rmitchellscott/bannermaster/internal/sse"
	"github.com/rmitchellscott/bannermaster/internal/storage"
	"github.com/rmitchellscott/bannermaster/internal/version"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println(version.String())
		os.Exit(0)
	}

	cfg := config.Load()
	logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	logging.InfoWithComponent(logging.ComponentStartup, "Starting Bannermaster", "version", version.String())

	if err := database.Initialize(database.ConfigFromApp(cfg)); err != nil {
		logging.ErrorWithComponent(logging.ComponentStartup, "Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis is optional; without it documents are generated on every request
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := middleware.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logging.WarnWithComponent(logging.ComponentStartup, "Continuing without document cache", "error", err)
		} else {
			redisClient = client
			defer redisClient.Close()
			logging.InfoWithComponent(logging.ComponentStartup, "Connected to Redis")
		}
	}

	rasterizer, err := rendering.New(cfg.RasterBackend, cfg.BrowserlessURL, cfg.ChromeBin, cfg.RasterTimeout)
	if err != nil {
		logging.ErrorWithComponent(logging.ComponentStartup, "Failed to create rasterizer", "error", err)
		os.Exit(1)
	}
	defer rasterizer.Close()
	logging.InfoWithComponent(logging.ComponentStartup, "Raster export backend ready", "backend", rasterizer.Name())

	sseService := sse.NewService()
	go sseService.KeepAlive(ctx, 30*time.Second)

	editorManager := editor.NewManager(editor.Options{
		Publisher:     sseService,
		Projects:      editor.NewProjectStore(storage.GetStorageBackend()),
		CycleInterval: cfg.CycleInterval,
		SessionTTL:    cfg.SessionTTL,
	})
	defer editorManager.Close()

	pollerManager := pollers.NewManager()
	pollerManager.Register(editorManager.Sweeper(5 * time.Minute))
	if err := pollerManager.Start(ctx); err != nil {
		logging.ErrorWithComponent(logging.ComponentStartup, "Failed to start pollers", "error", err)
		os.Exit(1)
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "If-None-Match"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "ETag", "X-Cache"}
	router.Use(cors.New(corsConfig))

	h := handlers.New(handlers.Deps{
		Config:     cfg,
		Banners:    database.NewBannerService(database.DB),
		Editor:     editorManager,
		Uploads:    storage.NewUploadStore(storage.NewFilesystemBackend(cfg.UploadDir), cfg.UploadURLPrefix, cfg.UploadMaxBytes),
		Events:     sseService,
		Rasterizer: rasterizer,
		Redis:      redisClient,
	})
	h.Register(router)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		logging.InfoWithComponent(logging.ComponentStartup, "Listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorWithComponent(logging.ComponentStartup, "Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("Shutting down server and pollers")

	if err := pollerManager.Stop(); err != nil {
		logging.Error("Error stopping pollers", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Request contexts derive from ctx, so this also ends open SSE streams
	cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
	}

	logging.Info("Server and pollers stopped")
}
