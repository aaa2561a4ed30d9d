// Command shrine-agent runs the passphrase-caching daemon described in
// spec.md §4.H: it listens on a Unix-domain socket in a user-private
// directory and serves shrine operations on behalf of the shrine CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/shrine-cli/shrine/agent"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "shrine-agent:", err)
		os.Exit(1)
	}
}

func run() error {
	socketPath, pidPath, err := agent.RuntimePaths()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(socketPath), 0o700); err != nil {
		return fmt.Errorf("creating runtime dir: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	srv := agent.NewServer(socketPath, pidPath, agent.DefaultTTL, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	err = srv.Serve(ctx)
	if err != nil && errors.Is(err, agent.ErrAgentAlreadyRunning) {
		return fmt.Errorf("an agent is already running (pid file: %s)", pidPath)
	}
	return err
}
