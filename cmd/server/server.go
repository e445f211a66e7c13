package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/KirkDiggler/rpg-gm/internal/clients/llm"
	"github.com/KirkDiggler/rpg-gm/internal/telemetry"
)

const (
	serviceName = "rpg-gm"
	// modelHealthService reports whether the model backend answers
	modelHealthService = "rpg_gm.ModelBackend"

	shutdownTimeout   = 30 * time.Second
	modelProbeEvery   = 30 * time.Second
	modelProbeTimeout = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

var (
	httpAddr    string
	grpcAddr    string
	saveBackend string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the game master server",
	Long: `Start the JSON API used by the browser client, plus a gRPC endpoint
exposing health and reflection for probes.`,
	RunE: runServer,
}

func init() {
	serverCmd.Flags().StringVar(&httpAddr, "http-addr", "", "HTTP listen address (overrides RPG_GM_HTTP_ADDR)")
	serverCmd.Flags().StringVar(&grpcAddr, "grpc-addr", "", "gRPC listen address, empty string value disables it (overrides RPG_GM_GRPC_ADDR)")
	serverCmd.Flags().StringVar(&saveBackend, "save-backend", "", "redis or sqlite (overrides RPG_GM_SAVE_BACKEND)")
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("http-addr") {
		cfg.HTTPAddr = httpAddr
	}
	if cmd.Flags().Changed("grpc-addr") {
		cfg.GRPCAddr = grpcAddr
	}
	if cmd.Flags().Changed("save-backend") {
		cfg.SaveBackend = saveBackend
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Warn("Trace flush failed", "error", err)
		}
	}()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errChan := make(chan error, 2)
	go func() {
		slog.Info("HTTP server starting", "addr", cfg.HTTPAddr, "model_backend", cfg.OllamaURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	var grpcServer *grpc.Server
	if cfg.GRPCAddr != "" {
		grpcServer, err = startGRPC(ctx, cfg.GRPCAddr, a.llm, errChan)
		if err != nil {
			return err
		}
	}

	select {
	case <-ctx.Done():
		slog.Info("Received shutdown signal, gracefully stopping")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown incomplete", "error", err)
	}

	if grpcServer != nil {
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			slog.Warn("Graceful shutdown timeout exceeded, forcing stop")
			grpcServer.Stop()
		case <-stopped:
		}
	}

	slog.Info("Server stopped")
	return nil
}

// startGRPC serves health and reflection. The model backend's status is
// probed in the background and published as its own health service.
func startGRPC(ctx context.Context, addr string, client llm.Client, errChan chan<- error) (*grpc.Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(modelHealthService, grpc_health_v1.HealthCheckResponse_UNKNOWN)

	reflection.Register(srv)

	go probeModelBackend(ctx, client, healthServer)

	go func() {
		slog.Info("gRPC server starting", "addr", addr)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	return srv, nil
}

func probeModelBackend(ctx context.Context, client llm.Client, healthServer *health.Server) {
	ticker := time.NewTicker(modelProbeEvery)
	defer ticker.Stop()

	for {
		probeCtx, cancel := context.WithTimeout(ctx, modelProbeTimeout)
		_, err := client.ListModels(probeCtx)
		cancel()

		status := grpc_health_v1.HealthCheckResponse_SERVING
		if err != nil {
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
			slog.Debug("Model backend probe failed", "error", err)
		}
		healthServer.SetServingStatus(modelHealthService, status)

		select {
		case <-ctx.Done():
			healthServer.Shutdown()
			return
		case <-ticker.C:
		}
	}
}

// logFunc bridges the grpc logging interceptor to slog
func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	slog.Log(ctx, slog.Level(level), msg, fields...)
}
