package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"chat-api/internal/inference"
	"chat-api/internal/middleware"
	"chat-api/internal/routers"
	"chat-api/internal/shared"

	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/manifold-inc/manifold-sdk/lib/eflag"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Flags / ENV Variables
	apiKey := flag.String("api-key", "", "Inference service API key")
	projectID := flag.String("project-id", "", "Project id scoping the inference calls")
	baseURL := flag.String("base-url", shared.DefaultBaseURL, "Inference service base URL")
	authURL := flag.String("auth-url", shared.DefaultAuthURL, "Identity token endpoint")
	modelID := flag.String("model-id", shared.DefaultModelID, "Generation model id")
	inferenceTimeout := flag.Duration("inference-timeout", shared.DefaultInferenceTimeout, "Per-call upstream timeout")
	allowedOrigins := flag.String("allowed-origins", "*", "Comma separated CORS origins")
	metricsAPIKey := flag.String("metrics-api-key", "", "Metrics api key")
	listen := flag.String("listen", ":8000", "Listen address")
	debug := flag.Bool("debug", false, "Debug enabled")

	err := eflag.SetFlagsFromEnvironment()
	if err != nil {
		panic(err)
	}
	flag.Parse()

	cfg := shared.ServiceConfig{
		APIKey:           *apiKey,
		BaseURL:          *baseURL,
		AuthURL:          *authURL,
		ProjectID:        *projectID,
		ModelID:          *modelID,
		InferenceTimeout: *inferenceTimeout,
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("refusing to start: %s", err))
	}

	var logger *zap.Logger
	if !*debug {
		logger, err = zap.NewProduction()
		if err != nil {
			panic("Failed init logger")
		}
	}
	if *debug {
		logger, err = zap.NewDevelopment()
		if err != nil {
			panic("Failed init logger")
		}
	}
	log := logger.Sugar()

	// Construction failure is fatal. A process that cannot reach the identity
	// endpoint must not begin accepting connections.
	client, err := inference.NewClient(context.Background(), cfg, log)
	if err != nil {
		panic(fmt.Sprintf("failed initializing inference client: %s", err))
	}
	log.Infow("Inference client ready", "base_url", cfg.BaseURL, "model", cfg.ModelID)

	e := echo.New()
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.NewMetricsKeyMiddleware(*metricsAPIKey))
	base := e.Group("")
	base.Use(emw.CORSWithConfig(emw.CORSConfig{
		AllowOrigins: strings.Split(*allowedOrigins, ","),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))
	base.Use(middleware.NewRecoverMiddleware(log))
	base.Use(middleware.NewTrackMiddleware(log))

	// Register routes
	if err := routers.RegisterChatRoutes(base, client); err != nil {
		panic(err)
	}

	go func() {
		if err := e.Start(*listen); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// Wait for interrupt signal to gracefully shut down the server
	<-ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), shared.DefaultShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
