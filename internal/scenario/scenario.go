// Package scenario holds the preset bundles that seed insurance, freight and
// broker fee from the FOB value.
package scenario

import (
	"strconv"
	"strings"
	"sync"
)

// Name identifies a preset.
type Name string

const (
	Base    Name = "base"
	Premium Name = "premium"
	Express Name = "express"
)

// Names lists the presets in tab order.
var Names = []Name{Base, Premium, Express}

// Preset is a fixed configuration applied on top of the FOB value.
type Preset struct {
	Name         Name    `json:"name"`
	InsurancePct float64 `json:"insurancePct"`
	FreightPct   float64 `json:"freightPct"`
	BrokerFee    float64 `json:"brokerFee"`
}

var presets = map[Name]Preset{
	Base:    {Name: Base, InsurancePct: 0.5, FreightPct: 8, BrokerFee: 500},
	Premium: {Name: Premium, InsurancePct: 1.5, FreightPct: 8, BrokerFee: 750},
	Express: {Name: Express, InsurancePct: 1.0, FreightPct: 15, BrokerFee: 600},
}

var aliases = map[string]Name{
	"calculadora": Base,
	"calculator":  Base,
	"base":        Base,
	"premium":     Premium,
	"express":     Express,
}

// Normalize trims and lowercases a requested name and maps it to a preset.
// Unknown names, including the empty string, become Base.
func Normalize(raw string) Name {
	if name, ok := aliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return name
	}
	return Base
}

// Lookup returns the preset for name, or Base for anything unknown.
func Lookup(name Name) Preset {
	if p, ok := presets[name]; ok {
		return p
	}
	return presets[Base]
}

// Fields are the form values a preset writes, formatted with two decimals.
type Fields struct {
	Insurance string
	Freight   string
	BrokerFee string
}

// Fields computes the values p writes for the given FOB. It reports false
// when fob is not positive, in which case nothing should be overwritten.
func (p Preset) Fields(fob float64) (Fields, bool) {
	if !(fob > 0) {
		return Fields{}, false
	}
	return Fields{
		Insurance: formatFixed2(fob * p.InsurancePct / 100),
		Freight:   formatFixed2(fob * p.FreightPct / 100),
		BrokerFee: formatFixed2(p.BrokerFee),
	}, true
}

func formatFixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Engine tracks the selected preset of one calculator session.
type Engine struct {
	mu      sync.Mutex
	current Name
}

// NewEngine starts on Base.
func NewEngine() *Engine {
	return &Engine{current: Base}
}

// Current returns the selected preset name.
func (e *Engine) Current() Name {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Select normalizes raw, records it as current and returns its preset.
func (e *Engine) Select(raw string) Preset {
	name := Normalize(raw)

	e.mu.Lock()
	e.current = name
	e.mu.Unlock()

	return Lookup(name)
}

// Tabs reports, for each preset in tab order, whether it is the active one.
func (e *Engine) Tabs() map[Name]bool {
	current := e.Current()
	tabs := make(map[Name]bool, len(Names))
	for _, name := range Names {
		tabs[name] = name == current
	}
	return tabs
}
