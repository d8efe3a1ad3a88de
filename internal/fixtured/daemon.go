package fixtured

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/GoSim-25-26J-441/topology-fixtures/internal/metrics"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/logger"
)

// Options configures the daemon. An empty address disables that listener.
type Options struct {
	HTTPAddr string
	GRPCAddr string
	// CreateRate caps HTTP dataset creation per client and second; <= 0
	// disables the cap.
	CreateRate int
	// MaxDatasets caps the datasets kept in memory; the oldest finished ones
	// are dropped first. <= 0 keeps everything.
	MaxDatasets int
}

// Serve runs the HTTP and gRPC listeners until ctx is cancelled or either
// server fails, then shuts both down and cancels running generations.
func Serve(ctx context.Context, opts Options, log *slog.Logger) error {
	if opts.HTTPAddr == "" && opts.GRPCAddr == "" {
		return errors.New("at least one of the HTTP or gRPC addresses is required")
	}
	if log == nil {
		log = logger.Default
	}

	registry := metrics.DefaultRegistry()
	store := NewDatasetStore()
	store.SetLimit(opts.MaxDatasets)
	executor := NewExecutor(store, registry, log)

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	errCh := make(chan error, 2)

	grpcServer, healthServer := NewGRPCServer(store, executor)
	if opts.GRPCAddr != "" {
		grpcLis, err := net.Listen("tcp", opts.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listen for gRPC on %s: %w", opts.GRPCAddr, err)
		}
		go func() {
			log.Info("gRPC server listening", "addr", grpcLis.Addr().String())
			if err := grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- fmt.Errorf("gRPC server: %w", err)
				stop()
			}
		}()
	}

	var httpSrv *http.Server
	if opts.HTTPAddr != "" {
		httpServer := NewHTTPServer(store, executor, registry)
		httpServer.SetCreateLimit(opts.CreateRate)
		httpSrv = &http.Server{
			Addr:              opts.HTTPAddr,
			Handler:           httpServer.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
			MaxHeaderBytes:    1 << 20,
		}
		go func() {
			log.Info("HTTP server listening", "addr", opts.HTTPAddr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("HTTP server: %w", err)
				stop()
			}
		}()
	}

	<-ctx.Done()
	log.Info("shutdown requested")

	healthServer.SetServingStatus(FixtureServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	executor.Shutdown()
	grpcServer.GracefulStop()
	if httpSrv != nil {
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP shutdown error", "error", err)
		}
	}

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
