package backtest

import (
	"fmt"
	"io"
	"time"
)

// PrintReport writes a human-readable summary of a backtest report.
func PrintReport(w io.Writer, r Report) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Strategy:      %s\n", r.Strategy)
	fmt.Fprintf(w, "Symbol:        %s\n", r.Symbol)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start:         %s\n", r.StartDate.Format(time.DateOnly))
	fmt.Fprintf(w, "End:           %s\n", r.EndDate.Format(time.DateOnly))
	fmt.Fprintf(w, "Days:          %d\n", r.DurationDays)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", r.TotalTrades)
	fmt.Fprintf(w, "Wins:          %d\n", r.WinningTrades)
	fmt.Fprintf(w, "Losses:        %d\n", r.LosingTrades)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", r.WinRate)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Balance: %.2f\n", r.InitialBalance)
	fmt.Fprintf(w, "End Balance:   %.2f\n", r.FinalBalance)
	fmt.Fprintf(w, "Net P/L:       %.2f\n", r.ProfitLoss)
	fmt.Fprintf(w, "Return:        %.2f%%\n", r.TotalReturn)
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", r.MaxDrawdown)
	fmt.Fprintf(w, "Sharpe Ratio:  %.2f\n", r.SharpeRatio)
	fmt.Fprintf(w, "Volatility:    %.4f\n", r.Volatility)

	fmt.Fprintln(w)
}
