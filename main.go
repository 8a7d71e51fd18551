package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/abiiranathan/pdfcount/cli"
	"github.com/joho/godotenv"
)

func main() {
	// PDFCOUNT_* settings may live in a .env file.
	godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
