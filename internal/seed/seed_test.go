package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Simplici0/tradeflow/internal/db"
	"github.com/Simplici0/tradeflow/internal/migrations"
	"github.com/Simplici0/tradeflow/internal/tariff"
)

func newSeedTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "seed-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return database
}

func TestRunIsIdempotent(t *testing.T) {
	database := newSeedTestDB(t)
	ctx := context.Background()

	wantInserts := len(tariff.SeedClassifications()) + len(tariff.SeedRates()) + 1

	for i := 0; i < 10; i++ {
		stats, err := Run(ctx, database)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != wantInserts {
				t.Fatalf("expected %d inserts in first run, got %d", wantInserts, stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 || stats.Updates != 0 {
			t.Fatalf("expected no writes in iteration %d, got %+v", i, stats)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM classifications`, nil, len(tariff.SeedClassifications()))
	assertCount(t, database, `SELECT COUNT(*) FROM tariff_rates`, nil, len(tariff.SeedRates()))
	assertCount(t, database, `SELECT COUNT(*) FROM tariff_defaults WHERE id = 1`, nil, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM tariff_rates WHERE code = ? AND duty_rate = 16`, "8517.12.00", 1)
}

func TestRunRepairsDriftedRows(t *testing.T) {
	database := newSeedTestDB(t)
	ctx := context.Background()

	if _, err := Run(ctx, database); err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if _, err := database.Exec(`UPDATE tariff_rates SET duty_rate = 99 WHERE code = ?`, "8517.12.00"); err != nil {
		t.Fatalf("drift rate: %v", err)
	}
	if _, err := database.Exec(`UPDATE classifications SET description = 'x' WHERE code = ?`, "8443.32.10"); err != nil {
		t.Fatalf("drift classification: %v", err)
	}

	stats, err := Run(ctx, database)
	if err != nil {
		t.Fatalf("run seed again: %v", err)
	}
	if stats.Inserts != 0 || stats.Updates != 2 {
		t.Fatalf("expected 2 updates, got %+v", stats)
	}

	catalog, err := tariff.NewStore(database).Load(ctx)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if got := catalog.RatesFor("8517.12.00"); got != (tariff.Rates{Duty: 16, VAT: 21}) {
		t.Fatalf("rates=%+v after repair", got)
	}
	if got := catalog.Classifications(); len(got) != 8 || got[0].Code != "8471.30.11" {
		t.Fatalf("classification order not preserved: %+v", got)
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.QueryRow(query).Scan(&count)
	case []any:
		err = database.QueryRow(query, v...).Scan(&count)
	default:
		err = database.QueryRow(query, v).Scan(&count)
	}
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
