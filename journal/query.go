package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradeboard/trades"
)

const tradeColumns = `trade_id, symbol, direction, status, volume, open_price, close_price, open_time, close_time, duration_seconds, profit_usd, profit_pct`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(row scanner) (string, trades.TradeRecord, error) {
	var (
		id        string
		rec       trades.TradeRecord
		direction string
		status    string
		closeTime sql.NullTime
		duration  sql.NullInt64
	)
	err := row.Scan(
		&id,
		&rec.Symbol,
		&direction,
		&status,
		&rec.Volume,
		&rec.OpenPrice,
		&rec.ClosePrice,
		&rec.OpenTime,
		&closeTime,
		&duration,
		&rec.ProfitAbsolute,
		&rec.ProfitPercent,
	)
	if err != nil {
		return "", rec, err
	}
	rec.Ticket = id
	rec.Direction = trades.Direction(direction)
	rec.Status = trades.Status(status)
	rec.OpenTime = rec.OpenTime.UTC()
	if closeTime.Valid {
		t := closeTime.Time.UTC()
		rec.CloseTime = &t
	}
	if duration.Valid {
		d := duration.Int64
		rec.DurationSeconds = &d
	}
	return id, rec, nil
}

// GetTrade returns a single trade record by ID. The returned record's
// Ticket is the stored id.
func (j *SQLite) GetTrade(tradeID string) (trades.TradeRecord, error) {
	row := j.db.QueryRow(`SELECT `+tradeColumns+` FROM trades WHERE trade_id = ?`, tradeID)
	_, rec, err := scanTrade(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return trades.TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return trades.TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesClosedBetween returns trades whose close_time is within [start, end).
func (j *SQLite) ListTradesClosedBetween(start, end time.Time) ([]trades.TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE close_time >= ? AND close_time < ?
		ORDER BY close_time ASC`, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trades.TradeRecord
	for rows.Next() {
		_, rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityBetween returns equity points with time within [start, end),
// oldest first.
func (j *SQLite) ListEquityBetween(start, end time.Time) ([]trades.EquityPoint, error) {
	rows, err := j.db.Query(`
		SELECT time, equity, balance, daily_pnl, max_loss_threshold, daily_loss_threshold
		FROM equity
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trades.EquityPoint
	for rows.Next() {
		var p trades.EquityPoint
		if err := rows.Scan(
			&p.Timestamp,
			&p.Equity,
			&p.Balance,
			&p.DailyPnl,
			&p.MaxLossThreshold,
			&p.DailyLossThreshold,
		); err != nil {
			return nil, err
		}
		p.Timestamp = p.Timestamp.UTC()
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RealizedBetween sums profit_usd of trades closed within [start, end).
func (j *SQLite) RealizedBetween(start, end time.Time) (decimal.Decimal, error) {
	list, err := j.ListTradesClosedBetween(start, end)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, t := range list {
		total = total.Add(t.ProfitAbsolute)
	}
	return total, nil
}
