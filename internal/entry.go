package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/nutriguide/internal/api"
	"github.com/starford/nutriguide/internal/inference"
	"github.com/starford/nutriguide/internal/mcpserver"
	"github.com/starford/nutriguide/internal/mealservice"
	"github.com/starford/nutriguide/internal/nutrition"
	"github.com/starford/nutriguide/internal/sse"
)

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	broker := sse.NewBroker()
	defer broker.Close()

	app, svc, err := build(ctx, opts,
		mealservice.WithEvents(func(entry mealservice.MealLogEntry) {
			broker.PublishMealLogged(entry)
		}))
	if err != nil {
		return err
	}
	cfg := app.config
	logger := slog.Default()

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the MCP stdio server over the same service wiring.
func RunMCP(ctx context.Context, opts ...Option) error {
	_, svc, err := build(ctx, opts)
	if err != nil {
		return err
	}
	return mcpserver.New(svc).ServeStdio()
}

// build loads the dataset, constructs adapters, and assembles the meal
// service. Adapter and dataset failures degrade the corresponding features
// with a warning instead of failing startup.
func build(ctx context.Context, opts []Option, svcOpts ...mealservice.Option) (*application, *mealservice.Service, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("dataset_path", cfg.Dataset.Path),
		slog.String("meal_log", cfg.Journal.MealLog),
		slog.String("feedback_log", cfg.Journal.FeedbackLog),
		slog.String("log_level", cfg.App.LogLevel.String()))

	table, err := nutrition.Load(cfg.Dataset.Path)
	if err != nil {
		logger.Warn("nutrition dataset unavailable, lookups will miss",
			slog.String("path", cfg.Dataset.Path), slog.String("error", err.Error()))
		table, _ = nutrition.Parse(strings.NewReader(""))
	} else {
		logger.Info("Nutrition dataset loaded", slog.Int("records", table.Len()))
	}

	classifier := app.classifier
	if classifier == nil && cfg.Vision.Enabled() {
		c, err := inference.NewRekognitionClassifier(ctx, cfg.Vision.Region)
		if err != nil {
			logger.Warn("image classifier unavailable", slog.String("error", err.Error()))
		} else {
			classifier = c
			logger.Info("Image classifier ready", slog.String("region", cfg.Vision.Region))
		}
	}

	textgen := app.textgen
	if textgen == nil && cfg.Text.Enabled() {
		g, err := inference.NewGeminiGenerator(cfg.Text.APIKey, cfg.Text.BaseURL)
		if err != nil {
			logger.Warn("text generator unavailable", slog.String("error", err.Error()))
		} else {
			textgen = g
			logger.Info("Text generator ready")
		}
	}

	svcOpts = append([]mealservice.Option{
		mealservice.WithClassifier(classifier),
		mealservice.WithTextGenerator(textgen),
		mealservice.WithMatching(mealservice.Matching{
			ResolveThreshold: cfg.Matching.ResolveThreshold,
			SuggestMinScore:  cfg.Matching.SuggestMinScore,
			SuggestLimit:     cfg.Matching.SuggestLimit,
		}),
	}, svcOpts...)
	svc := mealservice.New(table, cfg.Journal.MealLog, cfg.Journal.FeedbackLog, svcOpts...)
	return app, svc, nil
}
