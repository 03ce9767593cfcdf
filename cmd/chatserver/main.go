package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/edurelay/chat-server/internal/directory"
	"github.com/edurelay/chat-server/internal/relay"
)

func main() {
	fmt.Println("Starting chat relay server...")

	// Load .env if present; real environments configure via the process env.
	_ = godotenv.Load()

	cfg := relay.NewConfigFromEnv()

	store := relay.NewLogStore(cfg.LogDir)
	hub := relay.NewHub()
	rly := relay.NewRelay(hub, store)
	handler := relay.NewHandler(hub, rly, cfg)

	router := relay.NewRouter(handler)
	router.Mount("/chatrooms", directory.Routes(directory.NewService(cfg.LogDir)))

	httpServer := relay.CreateServer(cfg.Port, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- relay.StartServer(httpServer)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server stopped unexpectedly: %v", err)
	case sig := <-quit:
		log.Printf("Received signal %s, shutting down", sig)
	}

	if err := relay.ShutdownServer(httpServer, cfg.ShutdownTimeout); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	if err := hub.Shutdown(cfg.ShutdownTimeout); err != nil {
		log.Printf("Hub shutdown: %v", err)
	}
}
