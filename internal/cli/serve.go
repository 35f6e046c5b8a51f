package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/colorsplash/pkg/server"
	"github.com/matzehuels/colorsplash/pkg/session"
)

const shutdownTimeout = 5 * time.Second

type serveOpts struct {
	addr   string
	assets string
}

// serveCommand runs the session server.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the app and painting sessions",
		Long: `Serve the app files through the offline cache and host painting sessions
for browser clients. The cache is installed before the server starts; the
command fails when any app file cannot be fetched.`,
		Example: `  colorsplash serve
  colorsplash serve --addr :3000 --assets ./web`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&opts.assets, "assets", "", "app directory (overrides config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.assets != "" {
		cfg.Assets.Dir = opts.assets
	}

	worker, store, err := newWorker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	spin := newSpinner(ctx, "Installing app files...")
	spin.Start()
	if err := worker.Install(ctx); err != nil {
		spin.StopWithError("Install failed")
		return err
	}
	spin.StopWithSuccess("Installed " + worker.Version())

	sessions := session.NewMemoryStore(cfg.Server.SessionTTL)
	go session.Reap(ctx, sessions, time.Minute, func(n int) {
		logger.Info("expired sessions", "count", n)
	})

	so := studioOptions(cfg, logger)
	so.Stencils = nil
	srv := server.New(ctx, server.Config{
		Worker: worker,
		Store:  sessions,
		Studio: so,
		Logger: logger,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- httpSrv.ListenAndServe() }()

	printSuccess("Listening on %s", cfg.Server.Addr)
	printNextStep("Open", "http://localhost"+listenPort(cfg.Server.Addr)+"/")

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// listenPort returns the ":port" part of addr.
func listenPort(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i:]
		}
	}
	return ""
}
