// journal/schema.go
package journal

// Decimals are stored as TEXT so no precision is lost.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	direction TEXT NOT NULL,
	status TEXT NOT NULL,
	volume TEXT NOT NULL,
	open_price TEXT NOT NULL,
	close_price TEXT,
	open_time DATETIME NOT NULL,
	close_time DATETIME,
	duration_seconds INTEGER,
	profit_usd TEXT NOT NULL,
	profit_pct TEXT
);

CREATE INDEX IF NOT EXISTS idx_trades_close_time ON trades(close_time);

CREATE TABLE IF NOT EXISTS equity (
	time DATETIME PRIMARY KEY,
	equity TEXT,
	balance TEXT,
	daily_pnl TEXT,
	max_loss_threshold TEXT,
	daily_loss_threshold TEXT
);
`
