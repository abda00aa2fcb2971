package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownGrace = 10 * time.Second

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StartHTTPServer serves the router until SIGINT or SIGTERM, then
// drains in-flight requests. In-flight financial transactions commit
// or roll back at the database, so the grace period only has to cover
// the HTTP round trip.
func StartHTTPServer(router *gin.Engine, cfg ServerConfig, audit AuditLogger) {
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zap.L().Info("http server listening", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("http server failed", zap.Error(err))
		}
	}()

	audit.Log(ctx, AuditEvent{
		Action:  "SERVER_START",
		Message: "HTTP server started",
		Meta:    map[string]any{"port": cfg.Port},
	})

	<-ctx.Done()
	stop()
	zap.L().Info("shutdown signal received")

	// The audit entry goes out before the listener closes so a crash
	// during drain still leaves a trace.
	audit.Log(context.Background(), AuditEvent{
		Action:  "SERVER_SHUTDOWN",
		Message: "HTTP server shutting down",
	})

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := server.Shutdown(drainCtx); err != nil {
		zap.L().Error("forced shutdown", zap.Error(err))
		return
	}
	zap.L().Info("server exited gracefully")
}
