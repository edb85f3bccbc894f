package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	simulation_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	strategy TEXT NOT NULL,
	action TEXT NOT NULL,
	amount REAL NOT NULL,
	profit REAL NOT NULL,
	balance REAL NOT NULL,
	time DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_simulation ON trades(simulation_id);

CREATE TABLE IF NOT EXISTS balances (
	simulation_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	balance REAL NOT NULL,
	profit_loss REAL NOT NULL,
	profit_rate REAL NOT NULL,
	trade_count INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_balances_time ON balances(time);
`
