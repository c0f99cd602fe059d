package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/duckos/duckos/backend/internal/infrastructure/config"
	"github.com/duckos/duckos/backend/internal/infrastructure/server"
)

func main() {
	port := flag.String("port", "", "Server port (overrides DUCKOS_PORT)")
	storeEngine := flag.String("store", "", "Store engine: sqlite or memory (overrides DUCKOS_STORE_ENGINE)")
	storePath := flag.String("store-path", "", "SQLite database path (overrides DUCKOS_STORE_PATH)")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *storeEngine != "" {
		cfg.Store.Engine = *storeEngine
	}
	if *storePath != "" {
		cfg.Store.Path = *storePath
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		log.Println("Shutting down gracefully...")
		if err := srv.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}
}
