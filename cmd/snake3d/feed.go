package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake3d/internal/engine"
	"github.com/vovakirdan/snake3d/internal/platform/feed"
)

var (
	flagFeedAddr   string
	flagFeedPath   string
	flagMaxClients int
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Start the WebSocket feed server",
	Long: `Start a WebSocket server that streams engine events as JSON.

Each connection plays its own game. Clients send compact commands
({"t":"p"} to place, {"t":"s","h":1} to start hard, {"t":"d","d":"+y"}
to steer) and receive events, snapshots and acks.

Endpoints:
  /ws       - WebSocket feed
  /healthz  - Connection counters

Examples:
  snake3d feed
  snake3d feed --addr :9000 --max-clients 8`,
	Args: cobra.NoArgs,
	RunE: runFeed,
}

func init() {
	feedCmd.Flags().StringVar(&flagFeedAddr, "addr", ":8088", "Feed server address (host:port)")
	feedCmd.Flags().StringVar(&flagFeedPath, "path", "/ws", "WebSocket endpoint path")
	feedCmd.Flags().IntVar(&flagMaxClients, "max-clients", 64, "Maximum concurrent connections (0 = unlimited)")
}

func runFeed(_ *cobra.Command, _ []string) error {
	rules, err := loadRules()
	if err != nil {
		return err
	}
	logger, err := newLogger("snake3d-feed")
	if err != nil {
		return err
	}

	store := openStoreOrWarn(logger)
	var profiles engine.ProfileStore
	if store != nil {
		defer store.Close()
		profiles = store
	}

	cfg := feed.DefaultConfig()
	cfg.Address = flagFeedAddr
	cfg.Path = flagFeedPath
	cfg.Rules = rules
	cfg.TickRate = flagFPS
	cfg.MaxClients = flagMaxClients
	cfg.Seed = flagSeed

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := feed.NewServer(cfg, profiles, logger)
	fmt.Printf("Starting snake3d feed on ws://localhost:%s%s\n", portOf(cfg.Address), cfg.Path)
	fmt.Println("Press Ctrl+C to stop")
	return server.ListenAndServe(ctx)
}

// portOf returns the port part of a listen address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
