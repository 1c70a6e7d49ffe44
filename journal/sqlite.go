package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/tradeboard/trades"
)

// SQLite keeps one row per trade and per equity timestamp; recording the
// same trade again replaces its row.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t trades.TradeRecord) error {
	var closeTime sql.NullTime
	if t.CloseTime != nil {
		closeTime = sql.NullTime{Time: t.CloseTime.UTC(), Valid: true}
	}
	var duration sql.NullInt64
	if t.DurationSeconds != nil {
		duration = sql.NullInt64{Int64: *t.DurationSeconds, Valid: true}
	}

	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO trades
		(trade_id, symbol, direction, status, volume, open_price, close_price, open_time, close_time, duration_seconds, profit_usd, profit_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		TradeID(t), t.Symbol, string(t.Direction), string(t.Status),
		t.Volume, t.OpenPrice, t.ClosePrice, t.OpenTime.UTC(), closeTime,
		duration, t.ProfitAbsolute, t.ProfitPercent,
	)
	return err
}

func (j *SQLite) RecordEquity(e trades.EquityPoint) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO equity
		(time, equity, balance, daily_pnl, max_loss_threshold, daily_loss_threshold)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Timestamp.UTC(), e.Equity, e.Balance, e.DailyPnl, e.MaxLossThreshold, e.DailyLossThreshold,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
