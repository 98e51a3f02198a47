package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/Simplici0/tradeflow/internal/tariff"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way. Rows that already exist
// with the built-in values are left alone; rows that drifted are updated.
func Run(ctx context.Context, db *sql.DB) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	for i, c := range tariff.SeedClassifications() {
		if err := ensureClassification(ctx, tx, c, i, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	rates := tariff.SeedRates()
	codes := make([]string, 0, len(rates))
	for code := range rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if err := ensureRate(ctx, tx, code, rates[code], &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := ensureDefaults(ctx, tx, tariff.DefaultRates, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureClassification(ctx context.Context, tx *sql.Tx, c tariff.Classification, position int, stats *Stats) error {
	var description string
	var current int
	err := tx.QueryRowContext(ctx, `
		SELECT description, position
		FROM classifications
		WHERE code = ?
	`, c.Code).Scan(&description, &current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO classifications (code, description, position)
			VALUES (?, ?, ?)
		`, c.Code, c.Description, position); err != nil {
			return fmt.Errorf("insert classification %s: %w", c.Code, err)
		}
		stats.Inserts++
		return nil
	case err != nil:
		return fmt.Errorf("check classification %s: %w", c.Code, err)
	}

	if description == c.Description && current == position {
		return nil
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE classifications
		SET description = ?, position = ?
		WHERE code = ?
	`, c.Description, position, c.Code); err != nil {
		return fmt.Errorf("update classification %s: %w", c.Code, err)
	}
	stats.Updates++
	return nil
}

func ensureRate(ctx context.Context, tx *sql.Tx, code string, r tariff.Rates, stats *Stats) error {
	var current tariff.Rates
	err := tx.QueryRowContext(ctx, `
		SELECT duty_rate, vat_rate
		FROM tariff_rates
		WHERE code = ?
	`, code).Scan(&current.Duty, &current.VAT)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tariff_rates (code, duty_rate, vat_rate)
			VALUES (?, ?, ?)
		`, code, r.Duty, r.VAT); err != nil {
			return fmt.Errorf("insert tariff rate %s: %w", code, err)
		}
		stats.Inserts++
		return nil
	case err != nil:
		return fmt.Errorf("check tariff rate %s: %w", code, err)
	}

	if current == r {
		return nil
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE tariff_rates
		SET duty_rate = ?, vat_rate = ?
		WHERE code = ?
	`, r.Duty, r.VAT, code); err != nil {
		return fmt.Errorf("update tariff rate %s: %w", code, err)
	}
	stats.Updates++
	return nil
}

func ensureDefaults(ctx context.Context, tx *sql.Tx, r tariff.Rates, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tariff_defaults WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check tariff defaults existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO tariff_defaults (id, duty_rate, vat_rate)
		VALUES (1, ?, ?)
	`, r.Duty, r.VAT); err != nil {
		return fmt.Errorf("insert tariff defaults singleton: %w", err)
	}
	stats.Inserts++
	return nil
}
