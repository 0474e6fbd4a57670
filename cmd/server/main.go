package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Yili-code/FinMind-Lab/internal/app/di"
	"github.com/Yili-code/FinMind-Lab/internal/app/router"
	"github.com/Yili-code/FinMind-Lab/internal/platform/config"
	"github.com/Yili-code/FinMind-Lab/internal/platform/logger"
)

// shutdownTimeout は処理中のリクエストを待つ最大時間です。
const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// インフラ・フィーチャーの組み立て（DB/Redis に接続できなくても起動する）
	c := di.NewContainer(ctx, cfg)
	defer c.Close()

	// JWT_SECRETチェック（書き込み系ルートの保護）
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set; write routes are unprotected")
	}

	r := router.NewRouter(router.Options{
		CORSOrigins: cfg.CORSOrigins,
		JWTSecret:   cfg.JWTSecret,
	}, c)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			c.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
		}
	}
}
