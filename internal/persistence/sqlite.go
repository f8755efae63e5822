package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/lifecycle-bot/internal/lifecycle"
	"github.com/tathienbao/lifecycle-bot/internal/types"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the database at path.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &SQLiteRepository{db: db}

	if err := repo.Migrate(context.Background()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return repo, nil
}

// Migrate runs database migrations.
func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			trade_id TEXT NOT NULL,
			symbol TEXT NOT NULL,
			trading_mode TEXT NOT NULL DEFAULT '',
			side INTEGER NOT NULL,
			instruction INTEGER NOT NULL,
			quantity INTEGER NOT NULL,
			entry_order_id INTEGER NOT NULL DEFAULT 0,
			entry_order_price TEXT NOT NULL DEFAULT '0',
			entry_order_time DATETIME,
			entry_order_status INTEGER NOT NULL DEFAULT 0,
			entry_fill_price TEXT NOT NULL DEFAULT '0',
			entry_fill_time DATETIME,
			stop_loss_price TEXT NOT NULL DEFAULT '0',
			target_price TEXT NOT NULL DEFAULT '0',
			stop_order_id INTEGER NOT NULL DEFAULT 0,
			stop_order_price TEXT NOT NULL DEFAULT '0',
			stop_order_time DATETIME,
			stop_order_status INTEGER NOT NULL DEFAULT 0,
			target_order_id INTEGER NOT NULL DEFAULT 0,
			target_order_price TEXT NOT NULL DEFAULT '0',
			target_order_time DATETIME,
			target_order_status INTEGER NOT NULL DEFAULT 0,
			exit_order_id INTEGER NOT NULL DEFAULT 0,
			exit_order_status INTEGER NOT NULL DEFAULT 0,
			exit_price TEXT NOT NULL DEFAULT '0',
			exit_time DATETIME,
			exit_reason TEXT NOT NULL DEFAULT '',
			position_status INTEGER NOT NULL DEFAULT 0,
			gross_pl TEXT NOT NULL DEFAULT '0',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (trade_id, symbol)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_position_status ON trades(position_status)`,

		`CREATE TABLE IF NOT EXISTS trade_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			trade_id TEXT NOT NULL,
			symbol TEXT NOT NULL,
			kind TEXT NOT NULL,
			occurred_at DATETIME NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trade_events_trade ON trade_events(trade_id, symbol)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

// Apply upserts the trade row and appends the event to the log inside
// one transaction.
func (r *SQLiteRepository) Apply(ctx context.Context, event lifecycle.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rec := event.Record
	upsert := `INSERT OR REPLACE INTO trades
		(trade_id, symbol, trading_mode, side, instruction, quantity,
		 entry_order_id, entry_order_price, entry_order_time, entry_order_status,
		 entry_fill_price, entry_fill_time,
		 stop_loss_price, target_price,
		 stop_order_id, stop_order_price, stop_order_time, stop_order_status,
		 target_order_id, target_order_price, target_order_time, target_order_status,
		 exit_order_id, exit_order_status,
		 exit_price, exit_time, exit_reason, position_status, gross_pl, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`

	if _, err := tx.ExecContext(ctx, upsert,
		rec.TradeID,
		rec.Symbol,
		rec.TradingMode,
		rec.Side,
		rec.Instruction,
		rec.Quantity,
		rec.EntryOrderID,
		rec.EntryOrderPrice.String(),
		nullTime(rec.EntryOrderTime),
		rec.EntryOrderStatus,
		rec.EntryFillPrice.String(),
		nullTime(rec.EntryFillTime),
		rec.StopLossPrice.String(),
		rec.TargetPrice.String(),
		rec.StopOrderID,
		rec.StopOrderPrice.String(),
		nullTime(rec.StopOrderTime),
		rec.StopOrderStatus,
		rec.TargetOrderID,
		rec.TargetOrderPrice.String(),
		nullTime(rec.TargetOrderTime),
		rec.TargetOrderStatus,
		rec.ExitOrderID,
		rec.ExitOrderStatus,
		rec.ExitPrice.String(),
		nullTime(rec.ExitTime),
		string(rec.ExitReason),
		rec.PositionStatus,
		rec.GrossPL.String(),
	); err != nil {
		return fmt.Errorf("upsert trade: %w", err)
	}

	appendEvent := `INSERT INTO trade_events (trade_id, symbol, kind, occurred_at) VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, appendEvent, rec.TradeID, rec.Symbol, event.Kind.String(), event.At); err != nil {
		return fmt.Errorf("append trade event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// OpenTrades returns the records of trades whose lifecycle has not
// finished: the position is still open, or the entry order is still
// working at the broker without a fill.
func (r *SQLiteRepository) OpenTrades(ctx context.Context) ([]types.TradeRecord, error) {
	query := `SELECT trade_id, symbol, trading_mode, side, instruction, quantity,
		entry_order_id, entry_order_price, entry_order_time, entry_order_status,
		entry_fill_price, entry_fill_time,
		stop_loss_price, target_price,
		stop_order_id, stop_order_price, stop_order_time, stop_order_status,
		target_order_id, target_order_price, target_order_time, target_order_status,
		exit_order_id, exit_order_status,
		exit_price, exit_time, exit_reason, position_status, gross_pl
		FROM trades
		WHERE position_status = ?
		   OR (entry_order_status = ? AND position_status = ?)`

	rows, err := r.db.QueryContext(ctx, query,
		types.PositionOpen, types.OrderStatusOpen, types.PositionNone)
	if err != nil {
		return nil, fmt.Errorf("query open trades: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []types.TradeRecord
	for rows.Next() {
		var (
			rec types.TradeRecord

			entryOrderPrice, entryFillPrice          string
			stopLossPrice, targetPrice               string
			stopOrderPrice, targetOrderPrice         string
			exitPrice, grossPL, exitReason           string
			entryOrderTime, entryFillTime            sql.NullTime
			stopOrderTime, targetOrderTime, exitTime sql.NullTime
		)

		if err := rows.Scan(
			&rec.TradeID, &rec.Symbol, &rec.TradingMode, &rec.Side, &rec.Instruction, &rec.Quantity,
			&rec.EntryOrderID, &entryOrderPrice, &entryOrderTime, &rec.EntryOrderStatus,
			&entryFillPrice, &entryFillTime,
			&stopLossPrice, &targetPrice,
			&rec.StopOrderID, &stopOrderPrice, &stopOrderTime, &rec.StopOrderStatus,
			&rec.TargetOrderID, &targetOrderPrice, &targetOrderTime, &rec.TargetOrderStatus,
			&rec.ExitOrderID, &rec.ExitOrderStatus,
			&exitPrice, &exitTime, &exitReason, &rec.PositionStatus, &grossPL,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		rec.EntryOrderPrice, _ = decimal.NewFromString(entryOrderPrice)
		rec.EntryFillPrice, _ = decimal.NewFromString(entryFillPrice)
		rec.StopLossPrice, _ = decimal.NewFromString(stopLossPrice)
		rec.TargetPrice, _ = decimal.NewFromString(targetPrice)
		rec.StopOrderPrice, _ = decimal.NewFromString(stopOrderPrice)
		rec.TargetOrderPrice, _ = decimal.NewFromString(targetOrderPrice)
		rec.ExitPrice, _ = decimal.NewFromString(exitPrice)
		rec.GrossPL, _ = decimal.NewFromString(grossPL)
		rec.ExitReason = types.ExitReason(exitReason)
		rec.EntryOrderTime = entryOrderTime.Time
		rec.EntryFillTime = entryFillTime.Time
		rec.StopOrderTime = stopOrderTime.Time
		rec.TargetOrderTime = targetOrderTime.Time
		rec.ExitTime = exitTime.Time

		records = append(records, rec)
	}

	return records, rows.Err()
}

// PurgeOpen marks every unfinished trade row as force-closed, so a
// fresh start will not recover it, and returns the number of rows
// affected.
func (r *SQLiteRepository) PurgeOpen(ctx context.Context) (int64, error) {
	query := `UPDATE trades SET position_status = ?, exit_reason = ?, exit_time = ?, updated_at = CURRENT_TIMESTAMP
		WHERE position_status = ?
		   OR (entry_order_status = ? AND position_status = ?)`

	res, err := r.db.ExecContext(ctx, query,
		types.PositionClosed,
		string(types.ExitReasonForced),
		time.Now(),
		types.PositionOpen,
		types.OrderStatusOpen, types.PositionNone,
	)
	if err != nil {
		return 0, fmt.Errorf("purge open trades: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
