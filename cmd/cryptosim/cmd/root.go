package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cryptosim",
	Short: "A crypto-trading simulator and backtesting service",
	Long: `Cryptosim is a crypto-trading simulation platform written in Go.

It provides tools for:
  - Running live paper-trading simulations against a market data source
  - Backtesting strategies over historical candles
  - Serving simulation, market data and analysis APIs over HTTP
  - Journaling executed trades to CSV or SQLite`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
