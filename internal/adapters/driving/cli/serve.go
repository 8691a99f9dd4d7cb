package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nklarmann/replyagent/internal/adapters/driving/httpapi"
	"github.com/nklarmann/replyagent/internal/core/services"
	"github.com/nklarmann/replyagent/internal/logger"
)

var (
	serveAddr    string
	serveBackend string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local HTTP API",
	Long: `Serves the search and draft operations over a local HTTP API.
The index file is watched for changes and reloaded automatically, so
a rebuild by the index command is picked up without a restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&serveBackend, "backend", "", "generation backend: ollama, ollama-strong or openai")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	defer embedder.Close()

	llm, err := newLLM(serveBackend)
	if err != nil {
		return err
	}
	defer llm.Close()

	search := services.NewSearchService(indexStore, embedder)
	draft := services.NewDraftService(search, llm)
	server := httpapi.NewServer(search, draft)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := httpapi.WatchIndex(ctx, indexStore); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("Index watcher stopped: %v", err)
		}
	}()

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening on http://%s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
