package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()

	rows, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournal(t *testing.T) {
	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	balancesPath := filepath.Join(dir, "balances.csv")

	j, err := NewCSV(tradesPath, balancesPath)
	require.NoError(t, err)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordTrade(TradeRecord{
		TradeID:      "trade-a",
		SimulationID: "sim-1",
		Symbol:       "ETH/KRW",
		Strategy:     "meme_trading",
		Action:       "sell",
		Amount:       50000,
		Profit:       -120.25,
		Balance:      999879.75,
		Time:         at,
	}))
	require.NoError(t, j.RecordBalance(BalanceSnapshot{
		SimulationID: "sim-1",
		Time:         at,
		Balance:      999879.75,
		ProfitLoss:   -120.25,
		ProfitRate:   -0.012025,
		TradeCount:   1,
	}))
	require.NoError(t, j.Close())

	trades := readCSV(t, tradesPath)
	require.Len(t, trades, 2)
	assert.Equal(t, []string{"trade_id", "simulation_id", "symbol", "strategy", "action", "amount", "profit", "balance", "time"}, trades[0])
	assert.Equal(t, []string{"trade-a", "sim-1", "ETH/KRW", "meme_trading", "sell", "50000", "-120.25", "999879.75", "2024-03-01T12:00:00Z"}, trades[1])

	balances := readCSV(t, balancesPath)
	require.Len(t, balances, 2)
	assert.Equal(t, "sim-1", balances[1][0])
	assert.Equal(t, "1", balances[1][5])
}

func TestNoopJournal(t *testing.T) {
	var j Journal = Noop{}
	assert.NoError(t, j.RecordTrade(TradeRecord{}))
	assert.NoError(t, j.RecordBalance(BalanceSnapshot{}))
	assert.NoError(t, j.Close())
}
