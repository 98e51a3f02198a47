package view

import (
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/Simplici0/tradeflow/internal/importcost"
	"github.com/Simplici0/tradeflow/internal/money"
	"github.com/Simplici0/tradeflow/internal/scenario"
	"github.com/Simplici0/tradeflow/internal/tariff"
)

const (
	placeholder     = "—"
	localCurrency   = "ARS"
	costLocalPrefix = "Costo total en pesos: "
)

// Options configures a Controller.
type Options struct {
	FallbackRate         float64
	IncludeNationalTaxes bool
	Logger               *zap.Logger
}

// Controller owns one calculator session: the surface, the derived state and
// the selected preset. Every method runs to completion under one lock.
type Controller struct {
	mu sync.Mutex

	surface   Surface
	catalog   *tariff.Catalog
	scenarios *scenario.Engine
	pipeline  importcost.Pipeline
	logger    *zap.Logger

	state importcost.State
}

// NewController binds surface to a fresh calculation.
func NewController(surface Surface, catalog *tariff.Catalog, opts Options) *Controller {
	if catalog == nil {
		catalog = tariff.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Controller{
		surface:   surface,
		catalog:   catalog,
		scenarios: scenario.NewEngine(),
		logger:    logger,
		state:     importcost.NewState(opts.FallbackRate),
	}
	c.pipeline = importcost.Pipeline{
		IncludeNationalTaxes: opts.IncludeNationalTaxes,
		Observer:             c.renderStage,
	}
	return c
}

// State returns a copy of the current derived state.
func (c *Controller) State() importcost.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View is everything the page needs to redraw itself.
type View struct {
	Surface  Snapshot               `json:"surface"`
	State    importcost.State       `json:"state"`
	Scenario scenario.Name          `json:"scenario"`
	Tabs     map[scenario.Name]bool `json:"tabs"`
}

type snapshotter interface {
	Snapshot() Snapshot
}

// View captures the surface, the state and the preset selection together.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		State:    c.state,
		Scenario: c.scenarios.Current(),
		Tabs:     c.scenarios.Tabs(),
	}
	if snap, ok := c.surface.(snapshotter); ok {
		v.Surface = snap.Snapshot()
	}
	return v
}

// Recalculate runs the whole pipeline from the CIF stage.
func (c *Controller) Recalculate() importcost.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.recalculateFrom(importcost.StageCIF)
	return c.state
}

// EditFields writes the given field values and recalculates. Ids the surface
// does not have are ignored.
func (c *Controller) EditFields(values map[string]string) importcost.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, v := range values {
		if !c.surface.SetValue(id, v) {
			c.logger.Debug("ignoring unknown field", zap.String("field", id))
		}
	}
	c.recalculateFrom(importcost.StageCIF)
	return c.state
}

// SelectScenario makes raw the active preset. When FOB is positive it
// overwrites insurance, freight and broker fee and recalculates; otherwise
// only the selection changes.
func (c *Controller) SelectScenario(raw string) scenario.Name {
	c.mu.Lock()
	defer c.mu.Unlock()

	preset := c.scenarios.Select(raw)

	fob := c.readNumber(FieldFOB)
	fields, ok := preset.Fields(fob)
	if !ok {
		return preset.Name
	}

	c.surface.SetValue(FieldInsurance, fields.Insurance)
	c.surface.SetValue(FieldFreight, fields.Freight)
	c.surface.SetValue(costFields[importcost.BrokerFee], fields.BrokerFee)
	c.recalculateFrom(importcost.StageCIF)

	c.logger.Debug("scenario applied", zap.String("scenario", string(preset.Name)), zap.Float64("fob", fob))
	return preset.Name
}

// Scenario returns the active preset and the tab activation flags.
func (c *Controller) Scenario() (scenario.Name, map[scenario.Name]bool) {
	return c.scenarios.Current(), c.scenarios.Tabs()
}

// Search looks up classifications and shows the results panel when there is
// at least one match.
func (c *Controller) Search(query string) []tariff.Classification {
	matches := c.catalog.Lookup(query)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.surface.SetVisible(PanelSearchResults, len(matches) > 0)

	return matches
}

// SelectClassification fills code and description, hides the results panel,
// seeds the duty and VAT rates and recalculates from the duties stage.
func (c *Controller) SelectClassification(code, description string) tariff.Rates {
	rates := c.catalog.RatesFor(code)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.surface.SetValue(FieldClassificationCode, code)
	c.surface.SetValue(FieldDescription, description)
	c.surface.SetVisible(PanelSearchResults, false)
	c.surface.SetValue(lineFields[importcost.CustomsDuty], formatRate(rates.Duty))
	c.surface.SetValue(lineFields[importcost.VAT], formatRate(rates.VAT))

	c.recalculateFrom(importcost.StageDuties)
	return rates
}

// ApplyRate records a freshly fetched rate and refreshes the rate display and
// both converted totals.
func (c *Controller) ApplyRate(rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.ExchangeRate = rate
	c.state.RateKnown = true

	c.renderRate()
	if c.state.Total > 0 {
		c.surface.SetText(DisplayCostLocal, costLocalText(c.state.Total*rate))
	}
	c.renderConverted()
}

// ViewInLocalCurrency converts the displayed USD total at the last known rate.
// It does not fetch.
func (c *Controller) ViewInLocalCurrency() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	defer c.renderRate()

	text, ok := c.surface.Text(DisplayTotal)
	if !ok {
		return 0, false
	}
	usd, ok := money.ParseUSD(text)
	if !ok || usd <= 0 {
		return 0, false
	}

	converted := usd * c.state.ExchangeRate
	c.surface.SetText(DisplayCostLocal, costLocalText(converted))
	return converted, true
}

func (c *Controller) recalculateFrom(stage importcost.Stage) {
	c.state = c.pipeline.RunFrom(stage, c.state, c.readInput())
}

func (c *Controller) readInput() importcost.Input {
	in := importcost.Input{
		FOB:       c.readNumber(FieldFOB),
		Freight:   c.readNumber(FieldFreight),
		Insurance: c.readNumber(FieldInsurance),
		Lines:     make(map[importcost.Line]importcost.LineItem, len(lineFields)),
		Costs:     make(map[importcost.Line]float64, len(costFields)),
	}

	for line, id := range lineFields {
		raw, ok := c.surface.Value(id)
		if !ok {
			continue
		}
		mode, _ := c.surface.Value(ModeField(id))
		in.Lines[line] = importcost.LineItem{
			Value: money.ParseNumericInput(raw),
			Mode:  importcost.ParseMode(mode),
		}
	}
	for line, id := range costFields {
		in.Costs[line] = c.readNumber(id)
	}
	return in
}

func (c *Controller) readNumber(id string) float64 {
	raw, _ := c.surface.Value(id)
	return money.ParseNumericInput(raw)
}

// renderStage writes the display slice owned by a completed stage.
func (c *Controller) renderStage(stage importcost.Stage, s importcost.State) {
	switch stage {
	case importcost.StageCIF:
		c.surface.SetValue(FieldCIF, strconv.FormatFloat(s.CIF, 'f', 2, 64))
		c.surface.SetText(DisplayCIF, money.FormatUSD(s.CIF))
		c.surface.SetText(DisplayFOB, money.FormatUSD(s.FOB))
		c.surface.SetText(DisplayFreight, money.FormatUSD(s.Freight))
		c.surface.SetText(DisplayInsurance, money.FormatUSD(s.Insurance))
	case importcost.StageDuties:
		for _, line := range importcost.DutyLines {
			c.surface.SetText(dutyDisplays[line], money.FormatUSD(s.Duties[line]))
		}
	case importcost.StageOtherCosts:
		c.surface.SetText(DisplayOtherCosts, money.FormatUSD(s.OtherCosts))
	case importcost.StageTotal:
		c.renderSummary(s)
	}
}

func (c *Controller) renderSummary(s importcost.State) {
	c.surface.SetText(DisplayCIF, money.FormatUSD(s.CIF))
	c.surface.SetText(DisplayTaxesCollected, money.FormatUSD(s.TaxesCollected))
	c.surface.SetText(DisplayNationalTaxes, money.FormatUSD(s.NationalTaxes))
	c.surface.SetText(DisplayInternalTaxes, money.FormatUSD(s.InternalTaxes))
	c.surface.SetText(DisplayOtherCosts, money.FormatUSD(s.OtherCosts))
	c.surface.SetText(DisplayTotal, money.FormatUSD(s.Total))

	if converted, ok := s.ConvertedTotal(); ok {
		c.surface.SetText(DisplayTotalLocal, money.FormatLocal(converted))
	} else {
		c.surface.SetText(DisplayTotalLocal, placeholder)
	}
}

func (c *Controller) renderConverted() {
	if converted, ok := c.state.ConvertedTotal(); ok {
		c.surface.SetText(DisplayTotalLocal, money.FormatLocal(converted))
	}
}

func (c *Controller) renderRate() {
	c.surface.SetText(DisplayRate, rateText(c.state.ExchangeRate))
}

func rateText(rate float64) string {
	return "USD 1 = " + localCurrency + " " + strconv.FormatFloat(money.Round2(rate), 'f', 2, 64)
}

func costLocalText(amount float64) string {
	return costLocalPrefix + localCurrency + " " + money.FormatLocal(amount)
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
