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

	"skyview/config"
	"skyview/di"
	"skyview/rest"
	"skyview/utils/logger"
	"skyview/utils/otel"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
)

func main() {
	// Docker healthcheck in the distroless image
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// A missing .env is fine; the environment is authoritative.
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := otel.InitProvider(ctx, otel.Config{
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.OTel.ServiceVersion,
		Environment:    cfg.OTel.Environment,
		OTLPEndpoint:   cfg.OTel.Endpoint,
		Enabled:        cfg.OTel.Enabled,
		SampleRatio:    cfg.OTel.SampleRatio,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize OpenTelemetry: %v\n", err)
		cfg.OTel.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	log := logger.InitLogger(cfg.Logging.Level, cfg.OTel.Enabled)
	log.Info("Starting skyview", "port", cfg.Server.Port, "otel", cfg.OTel.Enabled)

	container, err := di.NewApplicationComponents(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	container.JobScheduler.Start(ctx)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout
	rest.RegisterRoutes(e, container, cfg)

	go func() {
		address := fmt.Sprintf(":%d", cfg.Server.Port)
		log.Info("HTTP server listening", "address", address)
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	container.JobScheduler.Shutdown()
	if err := container.Close(shutdownCtx); err != nil {
		log.Error("Failed to release resources", "error", err)
	}
	if err := otelShutdown(shutdownCtx); err != nil {
		log.Error("Failed to shutdown OpenTelemetry", "error", err)
	}

	log.Info("Server exited properly")
}

func runHealthcheck() error {
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "9000"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/v1/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
