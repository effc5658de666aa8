package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/tendant/simple-preview/pkg/simplepreview/api"
	"github.com/tendant/simple-preview/pkg/simplepreview/config"
)

// Config is the environment configuration for the preview daemon.
type Config struct {
	Port        string `env:"PORT" env-default:"8090"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	APIBaseURL string `env:"CONTENT_API_BASE_URL" env-default:"http://localhost:8000/api"`

	AllocatorType string `env:"ARTIFACT_ALLOCATOR" env-default:"memory"`
	FSBaseDir     string `env:"ARTIFACT_FS_BASE_DIR" env-default:""`
	FSURLPrefix   string `env:"ARTIFACT_FS_URL_PREFIX" env-default:""`

	ConversionTimeoutSeconds int  `env:"CONVERSION_TIMEOUT_SECONDS" env-default:"60"`
	CacheBustContentURLs     bool `env:"CACHE_BUST_CONTENT_URLS" env-default:"true"`
	EnableEventLogging       bool `env:"ENABLE_EVENT_LOGGING" env-default:"true"`
}

func main() {
	var envConfig Config
	if err := cleanenv.ReadEnv(&envConfig); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	engineConfig, err := config.Load(
		config.WithAPIBaseURL(envConfig.APIBaseURL),
		config.WithAllocator(envConfig.AllocatorType, envConfig.FSBaseDir, envConfig.FSURLPrefix),
		config.WithConversionTimeout(time.Duration(envConfig.ConversionTimeoutSeconds)*time.Second),
		config.WithCacheBust(envConfig.CacheBustContentURLs),
		config.WithEventLogging(envConfig.EnableEventLogging),
	)
	if err != nil {
		slog.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	engine, err := engineConfig.BuildEngine()
	if err != nil {
		slog.Error("Failed to build preview engine", "err", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]string{"status": "ok"})
	})
	r.Mount("/preview", api.NewPreviewHandler(engine).Routes())

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", envConfig.Port),
		Handler: r,
	}

	go func() {
		slog.Info("Preview server starting",
			"port", envConfig.Port,
			"env", envConfig.Environment,
			"content_api", envConfig.APIBaseURL,
			"allocator", envConfig.AllocatorType)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "err", err)
		os.Exit(1)
	}

	// Release any adopted artifact before exiting.
	engine.Close()

	slog.Info("Server exiting")
}
