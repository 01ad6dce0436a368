package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/corvusmed/painmap/internal/emulator"
	"go.uber.org/zap"
)

func main() {
	secretKey := getEnv("PAINMAPD_SECRET_KEY", "change_me_in_production")
	dbPath := getEnv("PAINMAPD_DB_PATH", filepath.Join("data", "painmapd.db"))
	port := getEnv("PAINMAPD_PORT", "8090")

	diagnostics, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = diagnostics.Sync() }()

	database, err := emulator.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	app := emulator.New(database, []byte(secretKey), diagnostics).Handler()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("painmapd listening on http://0.0.0.0:%s (db: %s)", port, dbPath)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
