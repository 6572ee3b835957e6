package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/crawford/tailor/internal/config"
	"github.com/crawford/tailor/internal/pr"
	"github.com/crawford/tailor/internal/provider"
	"github.com/crawford/tailor/internal/server"
	"github.com/crawford/tailor/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server",
	RunE:  runServe,
}

func init() {
	flags := serveCmd.Flags()
	flags.StringVar(&cfg.Address, "address", cfg.Address, "Interface to listen on")
	flags.StringVar(&cfg.Port, "port", cfg.Port, "Port to listen on")
	flags.StringVar(&cfg.PublicURL, "server-address", cfg.PublicURL, "Externally reachable base URL, used to build status links")
	flags.StringVar(&cfg.TemplatesDir, "templates", cfg.TemplatesDir, "Directory holding status.html.tmpl (built-in template used if empty)")
	flags.StringVar(&cfg.Token, "token", cfg.Token, "Provider API token (falls back to GITHUB_TOKEN, then `gh auth token`)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	bold := color.New(color.Bold)
	bold.Fprintf(cmd.OutOrStdout(), "tailor serving on %s\n", cfg.ListenAddress())

	log := newLogger(cfg.Verbosity)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	token, source, err := provider.ResolveAuthToken(ctx, cfg.Token)
	if err != nil {
		return fmt.Errorf("resolve auth token: %w", err)
	}
	if token == "" {
		return &config.ConfigError{Msg: "--token is required (or set GITHUB_TOKEN, or authenticate via `gh auth login`)"}
	}
	log.Info("resolved provider token", "source", source)

	client, err := provider.NewClient(ctx, token, provider.WithVerbose(cfg.Verbosity > 0, log))
	if err != nil {
		return fmt.Errorf("build provider client: %w", err)
	}

	assembler := pr.NewAssembler(client)
	w := worker.New(client, assembler, cfg.PublicURL, log)
	go w.Run(ctx)
	defer w.Close()

	srv, err := server.New(w, cfg.TemplatesDir, log)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	httpServer := &http.Server{
		Addr:    cfg.ListenAddress(),
		Handler: srv,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

func newLogger(verbosity int) *slog.Logger {
	level := slog.LevelInfo
	if verbosity > 0 {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
