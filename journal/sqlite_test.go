package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func sampleTrade(tradeID, simID string, at time.Time) TradeRecord {
	return TradeRecord{
		TradeID:      tradeID,
		SimulationID: simID,
		Symbol:       "BTC/KRW",
		Strategy:     "arbitrage",
		Action:       "buy",
		Amount:       100000,
		Profit:       250.5,
		Balance:      1000250.5,
		Time:         at,
	}
}

func TestSQLiteTradeRoundtrip(t *testing.T) {
	j := newTestSQLite(t)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	want := sampleTrade("01H0000000000000000000000A", "sim-1", at)
	require.NoError(t, j.RecordTrade(want))
	require.NoError(t, j.RecordTrade(sampleTrade("01H0000000000000000000000B", "sim-2", at)))

	got, err := j.ListTradesBySimulation("sim-1")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, want.TradeID, got[0].TradeID)
	assert.Equal(t, want.Symbol, got[0].Symbol)
	assert.Equal(t, want.Strategy, got[0].Strategy)
	assert.Equal(t, want.Action, got[0].Action)
	assert.InDelta(t, want.Amount, got[0].Amount, 1e-9)
	assert.InDelta(t, want.Profit, got[0].Profit, 1e-9)
	assert.InDelta(t, want.Balance, got[0].Balance, 1e-9)
	assert.True(t, got[0].Time.Equal(at), "time %v != %v", got[0].Time, at)
}

func TestSQLiteListTradesBetween(t *testing.T) {
	j := newTestSQLite(t)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		tr := sampleTrade("trade-"+string(rune('a'+i)), "sim-1", base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, j.RecordTrade(tr))
	}

	// Half-open range: the candle at +2h is excluded.
	got, err := j.ListTradesBetween(base, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSQLiteRecordBalance(t *testing.T) {
	j := newTestSQLite(t)

	err := j.RecordBalance(BalanceSnapshot{
		SimulationID: "sim-1",
		Time:         time.Now().UTC(),
		Balance:      1010000,
		ProfitLoss:   10000,
		ProfitRate:   1.0,
		TradeCount:   3,
	})
	assert.NoError(t, err)
}

func TestSQLiteEmptyListing(t *testing.T) {
	j := newTestSQLite(t)

	got, err := j.ListTradesBySimulation("nope")
	require.NoError(t, err)
	assert.Empty(t, got)
}
