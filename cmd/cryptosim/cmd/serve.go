package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cryptosim/analysis"
	"cryptosim/api"
	"cryptosim/backtest"
	"cryptosim/config"
	"cryptosim/journal"
	"cryptosim/logging"
	"cryptosim/market"
	"cryptosim/sim"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulation API server",
	Long: `Start the HTTP server exposing the simulation, backtest, market data,
analysis and monitoring APIs.

Example:
  cryptosim serve --config configs/server.yaml`,
	RunE: runServe,
}

var serveConfigPath string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if serveConfigPath != "" {
		loaded, err := config.LoadFromFile(serveConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	log := logging.New(cfg.Logging.Level)

	src := market.NewSynthetic(cfg.Market.Seed)

	jrnl, err := newJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer jrnl.Close()

	tickInterval, err := cfg.Simulation.ParseTickInterval()
	if err != nil {
		return fmt.Errorf("parse tick interval: %w", err)
	}

	sims := sim.NewEngine(src, jrnl, log, sim.Config{
		TickInterval:  tickInterval,
		HistoryWindow: cfg.Simulation.HistoryWindow,
		TradeCap:      cfg.Simulation.TradeCap,
		TradeKeep:     cfg.Simulation.TradeKeep,
		FallbackPrice: cfg.Simulation.FallbackPrice,
	})
	defer sims.Close()

	backtests := backtest.NewEngine(src, log)
	analyzer := analysis.New(src, cfg.Market.Seed)

	server := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: api.NewServer(sims, backtests, analyzer, src, log).Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

func newJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "", "none":
		return journal.Noop{}, nil
	case "csv":
		return journal.NewCSV(cfg.TradesFile, cfg.BalancesFile)
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
	}
}
