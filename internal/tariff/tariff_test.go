package tariff

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestLookupShortQueryReturnsNothing(t *testing.T) {
	catalog := Default()

	assert.Empty(t, catalog.Lookup(""))
	assert.Empty(t, catalog.Lookup("8"))
	assert.Empty(t, catalog.Lookup("á"))
}

func TestLookupByCodeReturnsSeededEntries(t *testing.T) {
	matches := Default().Lookup("8471")

	codes := make([]string, 0, len(matches))
	for _, m := range matches {
		codes = append(codes, m.Code)
	}
	assert.Subset(t, codes, []string{"8471.30.11", "8471.41.00", "8471.49.00"})
}

func TestLookupDescriptionIsCaseInsensitive(t *testing.T) {
	matches := Default().Lookup("IMPRESORAS")

	require.Len(t, matches, 1)
	assert.Equal(t, "8443.32.10", matches[0].Code)
}

func TestLookupNoMatch(t *testing.T) {
	assert.Empty(t, Default().Lookup("zzzz"))
}

func TestRatesForFallsBackToDefault(t *testing.T) {
	catalog := Default()

	assert.Equal(t, Rates{Duty: 16, VAT: 21}, catalog.RatesFor("8517.12.00"))
	assert.Equal(t, Rates{Duty: 0, VAT: 21}, catalog.RatesFor("8471.30.11"))
	assert.Equal(t, DefaultRates, catalog.RatesFor("9403.10.00"))
	assert.Equal(t, DefaultRates, catalog.RatesFor("unknown"))
}

func TestCatalogIsNotAliasedToInput(t *testing.T) {
	input := []Classification{{Code: "0101.21.00", Description: "Caballos reproductores"}}
	catalog := NewCatalog(input, nil, DefaultRates)

	input[0].Code = "changed"
	assert.Equal(t, "0101.21.00", catalog.Classifications()[0].Code)
}

func TestStoreLoadReadsReferenceTables(t *testing.T) {
	db := newTariffTestDB(t)

	_, err := db.Exec(`
		INSERT INTO classifications (code, description, position) VALUES
			('8517.12.00', 'Teléfonos móviles (celulares)', 2),
			('8443.32.10', 'Impresoras láser', 1);
		INSERT INTO tariff_rates (code, duty_rate, vat_rate) VALUES ('8517.12.00', 16, 21);
		INSERT INTO tariff_defaults (id, duty_rate, vat_rate) VALUES (1, 12, 10.5);
	`)
	require.NoError(t, err)

	catalog, err := NewStore(db).Load(context.Background())
	require.NoError(t, err)

	all := catalog.Classifications()
	require.Len(t, all, 2)
	assert.Equal(t, "8443.32.10", all[0].Code)
	assert.Equal(t, Rates{Duty: 16, VAT: 21}, catalog.RatesFor("8517.12.00"))
	assert.Equal(t, Rates{Duty: 12, VAT: 10.5}, catalog.RatesFor("8443.32.10"))
}

func TestStoreLoadWithoutDefaultsRowUsesBuiltIn(t *testing.T) {
	db := newTariffTestDB(t)

	catalog, err := NewStore(db).Load(context.Background())
	require.NoError(t, err)

	assert.Empty(t, catalog.Classifications())
	assert.Equal(t, DefaultRates, catalog.RatesFor("8471.30.11"))
}

func newTariffTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE classifications (
			code TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE tariff_rates (
			code TEXT PRIMARY KEY,
			duty_rate NUMERIC NOT NULL,
			vat_rate NUMERIC NOT NULL
		);
		CREATE TABLE tariff_defaults (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			duty_rate NUMERIC NOT NULL,
			vat_rate NUMERIC NOT NULL
		);
	`)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })
	return db
}
