package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteJournal stores fill records in a local sqlite database.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal opens (or creates) the journal database at dsn.
func NewSQLiteJournal(dsn string) (*SQLiteJournal, error) {
	if dir := filepath.Dir(dsn); dir != "." && dir != "" && dsn != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// Init creates the fills table if needed.
func (j *SQLiteJournal) Init(ctx context.Context) error {
	stmt := `CREATE TABLE IF NOT EXISTS fills (
		id TEXT PRIMARY KEY,
		ts TIMESTAMP NOT NULL,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		price REAL NOT NULL,
		quantity REAL NOT NULL,
		notional REAL NOT NULL,
		realized_pnl REAL NOT NULL,
		motive TEXT NOT NULL
	);`

	if _, err := j.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("init journal schema: %w", err)
	}
	return nil
}

// Append inserts one fill record. Missing IDs and timestamps are filled in.
func (j *SQLiteJournal) Append(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO fills (id, ts, symbol, side, price, quantity, notional, realized_pnl, motive)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp, rec.Symbol, rec.Side, rec.Price, rec.Quantity,
		rec.Notional, rec.RealizedPnL, rec.Motive,
	)
	if err != nil {
		return fmt.Errorf("append fill: %w", err)
	}
	return nil
}

// List returns the most recent fills, newest first. A non-positive limit
// returns everything.
func (j *SQLiteJournal) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, ts, symbol, side, price, quantity, notional, realized_pnl, motive
		FROM fills ORDER BY ts DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list fills: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Symbol, &rec.Side,
			&rec.Price, &rec.Quantity, &rec.Notional, &rec.RealizedPnL, &rec.Motive); err != nil {
			return nil, fmt.Errorf("scan fill: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
