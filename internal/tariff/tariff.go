package tariff

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// MinQueryLength is the shortest query Lookup will search for.
const MinQueryLength = 2

// Classification is one tariff position of the customs nomenclature.
type Classification struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Rates holds the default duty and VAT percentages for a tariff position.
type Rates struct {
	Duty float64 `json:"duty"`
	VAT  float64 `json:"vat"`
}

// DefaultRates applies to any code missing from the rate table.
var DefaultRates = Rates{Duty: 10, VAT: 21}

// Catalog is an immutable view of the classification list and the rate table.
type Catalog struct {
	classifications []Classification
	rates           map[string]Rates
	fallback        Rates
}

// NewCatalog builds a catalog. Classifications keep their given order.
func NewCatalog(classifications []Classification, rates map[string]Rates, fallback Rates) *Catalog {
	c := &Catalog{
		classifications: make([]Classification, len(classifications)),
		rates:           make(map[string]Rates, len(rates)),
		fallback:        fallback,
	}
	copy(c.classifications, classifications)
	for code, r := range rates {
		c.rates[code] = r
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return NewCatalog(seedClassifications, seedRates, DefaultRates)
}

// Classifications returns a copy of every entry.
func (c *Catalog) Classifications() []Classification {
	out := make([]Classification, len(c.classifications))
	copy(out, c.classifications)
	return out
}

// Lookup matches query against codes (substring) and descriptions
// (case-insensitive substring). Queries shorter than MinQueryLength match nothing.
func (c *Catalog) Lookup(query string) []Classification {
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil
	}

	needle := strings.ToLower(query)
	matches := make([]Classification, 0)
	for _, item := range c.classifications {
		if strings.Contains(item.Code, query) || strings.Contains(strings.ToLower(item.Description), needle) {
			matches = append(matches, item)
		}
	}
	return matches
}

// RatesFor returns the rates for code, or the catalog fallback.
func (c *Catalog) RatesFor(code string) Rates {
	if r, ok := c.rates[code]; ok {
		return r
	}
	return c.fallback
}

// RateCodes returns the codes with explicit rates, sorted.
func (c *Catalog) RateCodes() []string {
	codes := make([]string, 0, len(c.rates))
	for code := range c.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
