package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"
	"time"
)

type CSVJournal struct {
	mu       sync.Mutex
	trades   *csv.Writer
	balances *csv.Writer
	tf, bf   *os.File
}

func NewCSV(tradesPath, balancesPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	bf, err := os.Create(balancesPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	bw := csv.NewWriter(bf)

	if err := tw.Write([]string{"trade_id", "simulation_id", "symbol", "strategy", "action", "amount", "profit", "balance", "time"}); err != nil {
		return nil, err
	}
	if err := bw.Write([]string{"simulation_id", "time", "balance", "profit_loss", "profit_rate", "trade_count"}); err != nil {
		return nil, err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	bw.Flush()
	if err := bw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{trades: tw, balances: bw, tf: tf, bf: bf}, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.trades.Write([]string{
		t.TradeID,
		t.SimulationID,
		t.Symbol,
		t.Strategy,
		t.Action,
		f(t.Amount),
		f(t.Profit),
		f(t.Balance),
		t.Time.Format(time.RFC3339),
	})
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordBalance(b BalanceSnapshot) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.balances.Write([]string{
		b.SimulationID,
		b.Time.Format(time.RFC3339),
		f(b.Balance),
		f(b.ProfitLoss),
		f(b.ProfitRate),
		strconv.Itoa(b.TradeCount),
	})
	j.balances.Flush()
	return j.balances.Error()
}

func (j *CSVJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.trades.Flush()
	j.balances.Flush()

	if err := j.tf.Close(); err != nil {
		j.bf.Close()
		return err
	}
	return j.bf.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
