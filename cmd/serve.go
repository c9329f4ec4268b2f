package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/lbreton/folio"
	"github.com/lbreton/folio/alphavantage"
	"github.com/lbreton/folio/server"
)

type serveCmd struct {
	config   string
	addr     string
	apiKey   string
	interval time.Duration
	debug    bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the portfolio tracker API server" }
func (*serveCmd) Usage() string {
	return `mp serve [-c <config>] [-addr <listen>] [-k <api-key>] [-refresh <interval>] [-v]

  Serves the JSON API for the browser frontend: transactions, portfolio
  snapshot, instrument search, current prices, and a websocket snapshot
  stream. Prices for the whole catalog are refreshed on a fixed interval.
  All state is transient to the running session.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "c", "", "Path to the config file (defaults to folio.yaml in . or ~/.config/folio)")
	f.StringVar(&c.addr, "addr", "", "Listen address, overrides the config")
	f.StringVar(&c.apiKey, "k", "", "Alpha Vantage API key, overrides the config")
	f.DurationVar(&c.interval, "refresh", 0, "Price refresh interval, overrides the config")
	f.BoolVar(&c.debug, "v", false, "Verbose (debug) logging")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := server.LoadConfig(c.config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.addr != "" {
		cfg.Addr = c.addr
	}
	if c.apiKey != "" {
		cfg.APIKey = c.apiKey
	}
	if c.interval > 0 {
		cfg.RefreshInterval = c.interval
	}
	if c.debug {
		cfg.Debug = true
	}

	log, err := newLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer log.Sync()

	catalog := folio.DefaultCatalog()
	source := alphavantage.NewClient(cfg.APIKey, catalog)
	session := server.NewSession(catalog, log)

	poller := server.NewPoller(session, source, cfg.RefreshInterval, log)
	if err := poller.Start(); err != nil {
		log.Error("cannot start price poller", zap.Error(err))
		return subcommands.ExitFailure
	}

	api := server.New(session, source, log)
	httpServer := &http.Server{Addr: cfg.Addr, Handler: api.Handler()}

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving", zap.String("addr", cfg.Addr), zap.Duration("refresh", cfg.RefreshInterval))
		errCh <- httpServer.ListenAndServe()
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", zap.Error(err))
			poller.Stop()
			return subcommands.ExitFailure
		}
	}

	// Stop the poller first so no recomputation happens during or after
	// the drain, then give in-flight requests a moment to finish.
	poller.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown incomplete", zap.Error(err))
	}
	return subcommands.ExitSuccess
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
