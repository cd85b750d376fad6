package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/gaia-api/internal/api"
	"github.com/ignite/gaia-api/internal/config"
	"github.com/ignite/gaia-api/internal/mailer"
	"github.com/ignite/gaia-api/internal/store"
)

// checkPortAvailable verifies that the target port is not already in use.
// This prevents confusion from a stale process occupying the port.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Pre-flight check: verify the target port is available
	if err := checkPortAvailable(cfg.Server.GetHost(), cfg.Server.Port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	// Initialize storage and ensure the schema exists. A database file we
	// cannot open or create is fatal.
	connections := store.New(cfg.Storage.Path)
	if err := connections.Init(context.Background()); err != nil {
		log.Fatalf("Failed to initialize database at %s: %v", cfg.Storage.Path, err)
	}
	log.Printf("[store] database ready at %s", cfg.Storage.Path)

	welcome := mailer.New(cfg.Mail)
	log.Printf("[mailer] relay %s, sender %s", cfg.Mail.RelayAddr(), cfg.Mail.FromEmail)

	handlers := api.NewHandlers(connections, welcome)
	server := api.NewServer(cfg.Server, cfg.CORS, handlers)

	errCh := make(chan error, 1)
	go func() {
		addr := cfg.Server.Addr()
		log.Printf("[server] Gaia API listening on %s", addr)
		errCh <- server.ListenAndServe(addr)
	}()

	// Wait for shutdown signal or server failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("[server] received %s, shutting down", sig)
	case err := <-errCh:
		log.Fatalf("Server failed: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[server] shutdown error: %v", err)
	}
	log.Println("[server] stopped")
}
