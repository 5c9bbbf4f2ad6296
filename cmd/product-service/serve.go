package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"productmanagement/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and metrics servers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty data document if none exists",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		// NewData 在锁内完成初始化
		_, cleanup, err := wireApp(cfg, withTraceFields(logger))
		if err != nil {
			return err
		}
		defer cleanup()

		fmt.Fprintf(cmd.OutOrStdout(), "data document ready at %s\n", cfg.Data.PathData)
		return nil
	},
}

func serve(ctx context.Context) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	zl := logger.Zap()
	defer logger.Sync()

	zl.Info("Starting Product Service",
		zap.String("version", Version),
		zap.String("environment", cfg.Observability.Environment),
		zap.String("data", cfg.Data.PathData),
	)

	tracingConfig := observability.DefaultTracingConfig(cfg.Observability.ServiceName)
	tracingConfig.ServiceVersion = cfg.Observability.ServiceVersion
	tracingConfig.Environment = cfg.Observability.Environment
	tracingConfig.Endpoint = cfg.Observability.OTELEndpoint
	tracingConfig.Protocol = cfg.Observability.OTELProtocol
	tracingConfig.SamplingRate = cfg.Observability.SamplingRate
	tracingConfig.Enabled = cfg.Observability.EnableTrace

	shutdownTracing, err := observability.InitTracing(ctx, tracingConfig)
	if err != nil {
		return err
	}

	app, cleanup, err := wireApp(cfg, withTraceFields(logger))
	if err != nil {
		return err
	}
	defer cleanup()

	httpAddr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         httpAddr,
		Handler:      app.http.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	metricsAddr := fmt.Sprintf(":%d", cfg.Server.MetricsPort)
	metricsSrv := &http.Server{
		Addr:    metricsAddr,
		Handler: promhttp.Handler(),
	}

	errCh := make(chan error, 2)
	go func() {
		zl.Info("HTTP server starting", zap.String("addr", httpAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		zl.Info("Metrics server starting", zap.String("addr", metricsAddr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case sig := <-quit:
		zl.Info("Shutting down servers...", zap.String("signal", sig.String()))
	case runErr = <-errCh:
		zl.Error("Server failed", zap.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Metrics server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		zl.Error("Tracer shutdown failed", zap.Error(err))
	}

	zl.Info("Servers exited")
	return runErr
}
