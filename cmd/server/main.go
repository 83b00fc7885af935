package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryanseely/house-olympics/internal/config"
	"github.com/bryanseely/house-olympics/internal/demo"
	"github.com/bryanseely/house-olympics/internal/service"
	"github.com/bryanseely/house-olympics/internal/store"
	"github.com/bryanseely/house-olympics/internal/ws"
)

func main() {
	demoMode := flag.Bool("demo", false, "Seed sample data and auto-play sessions")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "Override server port")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}

	st, err := store.Open(cfg.Storage.Dir)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	svc := service.New(st, nil)
	broadcaster := ws.NewBroadcaster(st, cfg.Broadcast.Throttle, cfg.Broadcast.SnapshotInterval)
	server := ws.NewServer(st, svc, broadcaster, cfg.Server.AllowedOrigins, cfg.Server.AuthToken)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *demoMode {
		log.Println("Starting in demo mode")
		gen := demo.NewGenerator(st, svc, nil, 3*time.Second)
		gen.Start(ctx)
	}

	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
		broadcaster.Close()
		os.Exit(0)
	}()

	if err := ws.ListenAndServe(cfg.Server.Host, cfg.Server.Port, mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
