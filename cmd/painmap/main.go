package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corvusmed/painmap/internal/cli"
	"github.com/corvusmed/painmap/internal/config"
	"github.com/corvusmed/painmap/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config init failed: %v", err)
	}

	location := mustLoadLocation(cfg.Timezone)
	time.Local = location

	diagnostics, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = diagnostics.Sync() }()

	ctx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	root := cli.NewRootCommand(cfg, diagnostics, location)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}
