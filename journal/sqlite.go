package journal

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	mu sync.Mutex
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, simulation_id, symbol, strategy, action, amount, profit, balance, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.SimulationID, t.Symbol, t.Strategy,
		t.Action, t.Amount, t.Profit, t.Balance, t.Time,
	)
	return err
}

func (j *SQLiteJournal) RecordBalance(b BalanceSnapshot) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(`
		INSERT INTO balances
		(simulation_id, time, balance, profit_loss, profit_rate, trade_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.SimulationID, b.Time, b.Balance, b.ProfitLoss, b.ProfitRate, b.TradeCount,
	)
	return err
}

// ListTradesBySimulation returns all journaled trades for a simulation in
// insertion order.
func (j *SQLiteJournal) ListTradesBySimulation(simulationID string) ([]TradeRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rows, err := j.db.Query(`
		SELECT trade_id, simulation_id, symbol, strategy, action, amount, profit, balance, time
		FROM trades WHERE simulation_id = ? ORDER BY trade_id`,
		simulationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(&t.TradeID, &t.SimulationID, &t.Symbol, &t.Strategy,
			&t.Action, &t.Amount, &t.Profit, &t.Balance, &t.Time); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListTradesBetween returns trades executed in [start, end).
func (j *SQLiteJournal) ListTradesBetween(start, end time.Time) ([]TradeRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rows, err := j.db.Query(`
		SELECT trade_id, simulation_id, symbol, strategy, action, amount, profit, balance, time
		FROM trades WHERE time >= ? AND time < ? ORDER BY time`,
		start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(&t.TradeID, &t.SimulationID, &t.Symbol, &t.Strategy,
			&t.Action, &t.Amount, &t.Profit, &t.Balance, &t.Time); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
