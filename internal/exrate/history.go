package exrate

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// historyTimeLayout has a fixed width so fetched_at sorts as text.
const historyTimeLayout = "2006-01-02T15:04:05.000000000Z"

// History records successful quotes in the rate_history table.
type History struct {
	db     *sql.DB
	source string
}

// NewHistory creates a history writer tagging rows with source.
func NewHistory(db *sql.DB, source string) *History {
	return &History{db: db, source: source}
}

// Record stores one successful quote.
func (h *History) Record(ctx context.Context, q Quote) error {
	if _, err := h.db.ExecContext(ctx, `
		INSERT INTO rate_history (rate, source, fetched_at)
		VALUES (?, ?, ?)
	`, q.Rate, h.source, q.At.UTC().Format(historyTimeLayout)); err != nil {
		return fmt.Errorf("insert rate history: %w", err)
	}
	return nil
}

// Recent returns up to limit quotes, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]Quote, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT rate, fetched_at
		FROM rate_history
		ORDER BY fetched_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query rate history: %w", err)
	}
	defer rows.Close()

	quotes := make([]Quote, 0, limit)
	for rows.Next() {
		var q Quote
		var at string
		if err := rows.Scan(&q.Rate, &at); err != nil {
			return nil, fmt.Errorf("scan rate history: %w", err)
		}
		q.At, err = time.Parse(historyTimeLayout, at)
		if err != nil {
			return nil, fmt.Errorf("parse rate history time: %w", err)
		}
		quotes = append(quotes, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rate history: %w", err)
	}

	return quotes, nil
}
