package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	// Optional; the environment wins over .env.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	code := newApp(os.Stdin, os.Stdout, os.Stderr).run(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}
