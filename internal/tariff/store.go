package tariff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Store reads the reference tables written by the migrations and the seed.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Load reads classifications, rates and the fallback row into a Catalog.
func (s *Store) Load(ctx context.Context) (*Catalog, error) {
	classifications, err := s.listClassifications(ctx)
	if err != nil {
		return nil, err
	}

	rates, err := s.listRates(ctx)
	if err != nil {
		return nil, err
	}

	fallback, err := s.getFallback(ctx)
	if err != nil {
		return nil, err
	}

	return NewCatalog(classifications, rates, fallback), nil
}

func (s *Store) listClassifications(ctx context.Context) ([]Classification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, description
		FROM classifications
		ORDER BY position ASC, code ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query classifications: %w", err)
	}
	defer rows.Close()

	classifications := make([]Classification, 0)
	for rows.Next() {
		var c Classification
		if err := rows.Scan(&c.Code, &c.Description); err != nil {
			return nil, fmt.Errorf("scan classification: %w", err)
		}
		classifications = append(classifications, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate classifications: %w", err)
	}

	return classifications, nil
}

func (s *Store) listRates(ctx context.Context) (map[string]Rates, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, duty_rate, vat_rate
		FROM tariff_rates
	`)
	if err != nil {
		return nil, fmt.Errorf("query tariff rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[string]Rates)
	for rows.Next() {
		var code string
		var r Rates
		if err := rows.Scan(&code, &r.Duty, &r.VAT); err != nil {
			return nil, fmt.Errorf("scan tariff rate: %w", err)
		}
		rates[code] = r
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tariff rates: %w", err)
	}

	return rates, nil
}

func (s *Store) getFallback(ctx context.Context) (Rates, error) {
	var r Rates
	err := s.db.QueryRowContext(ctx, `
		SELECT duty_rate, vat_rate
		FROM tariff_defaults
		WHERE id = 1
	`).Scan(&r.Duty, &r.VAT)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DefaultRates, nil
		}
		return Rates{}, fmt.Errorf("query tariff_defaults: %w", err)
	}
	return r, nil
}
