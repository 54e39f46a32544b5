/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the flex-time engine server: configuration,
  dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (optional) and parse command-line flags
  2. Initialize SQLite run store
  3. Create API handler (loads the policy document)
  4. Start the export refresher
  5. Start server with graceful shutdown

CONFIGURATION:
  Flags win over environment variables; both are optional.

    -port / FLEXTIME_PORT          HTTP server port (default: 8080)
    -db / FLEXTIME_DB              SQLite database path (default: flextime.db;
                                   ":memory:" for in-memory)
    -policy / FLEXTIME_POLICY      Policy JSON path (default: policy.json)
    -exports / FLEXTIME_EXPORTS    Directory the download collaborator
                                   deposits exports into (default: ./exports)
    -refresh / FLEXTIME_REFRESH    Export poll interval (default: 5m, 0 disables)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the refresher
  2. Stop accepting new connections, drain active requests (30s timeout)
  3. Close the database

SEE ALSO:
  - api/server.go: Router configuration
  - api/refresher.go: Export polling
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/warp/flextime/api"
	"github.com/warp/flextime/source"
	"github.com/warp/flextime/store/sqlite"
)

func main() {
	// A missing .env is fine; flags and defaults cover everything.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("FLEXTIME_PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("FLEXTIME_DB", "flextime.db"), "SQLite database path")
	policyPath := flag.String("policy", envStr("FLEXTIME_POLICY", "policy.json"), "policy JSON path")
	exportDir := flag.String("exports", envStr("FLEXTIME_EXPORTS", "./exports"), "export deposit directory")
	refresh := flag.Duration("refresh", envDuration("FLEXTIME_REFRESH", 5*time.Minute), "export poll interval (0 disables)")
	flag.Parse()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	handler, err := api.NewHandler(store, source.DirSource{Dir: *exportDir}, *policyPath)
	if err != nil {
		log.Fatalf("Failed to initialize handler: %v", err)
	}

	refresher := api.NewRefresher(handler)
	if *refresh <= 0 {
		refresher.Enabled = false
	} else {
		refresher.CheckInterval = *refresh
	}
	refresher.Start()
	defer refresher.Stop()

	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("Watching %s for exports", *exportDir)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
