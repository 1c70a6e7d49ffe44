// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradeboard/trades"
)

var (
	tradeHeader  = []string{"trade_id", "symbol", "direction", "status", "volume", "open_price", "close_price", "open_time", "close_time", "duration_seconds", "profit_usd", "profit_pct"}
	equityHeader = []string{"time", "equity", "balance", "daily_pnl", "max_loss_threshold", "daily_loss_threshold"}
)

type CSV struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

func NewCSV(tradesPath, equityPath string) (*CSV, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	j := &CSV{trades: csv.NewWriter(tf), equity: csv.NewWriter(ef), tf: tf, ef: ef}
	if err := j.write(j.trades, tradeHeader); err != nil {
		j.Close()
		return nil, err
	}
	if err := j.write(j.equity, equityHeader); err != nil {
		j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSV) write(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSV) RecordTrade(t trades.TradeRecord) error {
	return j.write(j.trades, []string{
		TradeID(t),
		t.Symbol,
		string(t.Direction),
		string(t.Status),
		t.Volume.String(),
		t.OpenPrice.String(),
		nullDec(t.ClosePrice),
		stamp(&t.OpenTime),
		stamp(t.CloseTime),
		seconds(t.DurationSeconds),
		t.ProfitAbsolute.String(),
		nullDec(t.ProfitPercent),
	})
}

func (j *CSV) RecordEquity(e trades.EquityPoint) error {
	return j.write(j.equity, []string{
		stamp(&e.Timestamp),
		nullDec(e.Equity),
		nullDec(e.Balance),
		nullDec(e.DailyPnl),
		nullDec(e.MaxLossThreshold),
		nullDec(e.DailyLossThreshold),
	})
}

func (j *CSV) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	if err := j.ef.Close(); err != nil {
		return err
	}
	return nil
}

func nullDec(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func stamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func seconds(s *int64) string {
	if s == nil {
		return ""
	}
	return strconv.FormatInt(*s, 10)
}
