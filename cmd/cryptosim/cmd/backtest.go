package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"cryptosim/backtest"
	"cryptosim/logging"
	"cryptosim/market"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a one-shot strategy backtest",
	Long: `Replay a strategy over historical daily candles and print the report.

Candles come from a CSV dataset when --data is given, otherwise from the
seeded synthetic source.

Example:
  cryptosim backtest --strategy arbitrage --symbol BTC/KRW \
    --start 2024-01-01 --end 2024-03-01 --balance 1000000 --data btc_daily.csv`,
	RunE: runBacktest,
}

var (
	btStrategy string
	btSymbol   string
	btStart    string
	btEnd      string
	btBalance  float64
	btData     string
	btSeed     int64
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVar(&btStrategy, "strategy", "", "strategy tag (required)")
	backtestCmd.Flags().StringVar(&btSymbol, "symbol", "BTC/KRW", "trading pair")
	backtestCmd.Flags().StringVar(&btStart, "start", "", "start date YYYY-MM-DD (required)")
	backtestCmd.Flags().StringVar(&btEnd, "end", "", "end date YYYY-MM-DD (required)")
	backtestCmd.Flags().Float64Var(&btBalance, "balance", 1_000_000, "initial balance")
	backtestCmd.Flags().StringVar(&btData, "data", "", "CSV candle dataset (time,open,high,low,close,volume)")
	backtestCmd.Flags().Int64Var(&btSeed, "seed", 42, "synthetic source seed when no dataset is given")
	backtestCmd.MarkFlagRequired("strategy")
	backtestCmd.MarkFlagRequired("start")
	backtestCmd.MarkFlagRequired("end")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	start, err := time.Parse(time.DateOnly, btStart)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	end, err := time.Parse(time.DateOnly, btEnd)
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}

	var src market.Source
	if btData != "" {
		candles, err := market.LoadCSV(btData)
		if err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
		static := market.NewStatic()
		static.SetCandles(btSymbol, candles)
		src = static
	} else {
		src = market.NewSynthetic(btSeed)
	}

	engine := backtest.NewEngine(src, logging.New("warn"))
	report, err := engine.Run(cmd.Context(), backtest.Params{
		Strategy:       btStrategy,
		Symbol:         btSymbol,
		Start:          start,
		End:            end,
		InitialBalance: btBalance,
	})
	if err != nil {
		return err
	}

	backtest.PrintReport(os.Stdout, report)
	return nil
}
