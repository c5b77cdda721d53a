package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/usestring/prisma-infer/pkg/mcpsrv"
)

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Configuration is loaded from environment variables:
	// - INFER_NORMALIZE_ARRAYS, INFER_MAX_DEPTH, INFER_CAMEL_CASE: inference defaults
	// - RESULT_CACHE_MAX_ITEMS: results kept for prisma:// resources
	// - LOG_LEVEL, LOG_FORMAT, LOG_FILE: logging (stdout carries the protocol)
	// - etc. (see internal/config for all options)
	server, err := mcpsrv.NewServer()
	if err != nil {
		slog.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}
	defer server.Close()

	slog.Info("starting prisma-infer MCP server on stdio")
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
