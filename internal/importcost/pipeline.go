// Package importcost computes the landed cost of an import from a snapshot of
// form values. Stages run in a fixed order and each one only reads values
// produced by the stages before it.
package importcost

// Input is a plain snapshot of the calculator form.
type Input struct {
	FOB       float64 `json:"fob"`
	Freight   float64 `json:"freight"`
	Insurance float64 `json:"insurance"`

	// Lines holds duty, national-tax and internal-tax items. Missing lines
	// contribute 0.
	Lines map[Line]LineItem `json:"lines"`
	// Costs holds the absolute other-cost amounts.
	Costs map[Line]float64 `json:"costs"`
}

// State is the derived side of a calculation plus the exchange rate the
// session last saw.
type State struct {
	FOB       float64 `json:"fob"`
	Freight   float64 `json:"freight"`
	Insurance float64 `json:"insurance"`
	CIF       float64 `json:"cif"`

	Duties         map[Line]float64 `json:"duties"`
	TaxesCollected float64          `json:"taxesCollected"`

	National      map[Line]float64 `json:"national"`
	NationalTaxes float64          `json:"nationalTaxes"`

	Internal      map[Line]float64 `json:"internal"`
	InternalTaxes float64          `json:"internalTaxes"`

	Costs      map[Line]float64 `json:"costs"`
	OtherCosts float64          `json:"otherCosts"`

	Total float64 `json:"total"`

	ExchangeRate float64 `json:"exchangeRate"`
	RateKnown    bool    `json:"rateKnown"`
}

// NewState returns the zero calculation with the given fallback rate.
func NewState(fallbackRate float64) State {
	return State{ExchangeRate: fallbackRate}
}

// ConvertedTotal returns Total in local currency. It reports false until a
// rate has been fetched or while the total is zero.
func (s State) ConvertedTotal() (float64, bool) {
	if !s.RateKnown || s.ExchangeRate == 0 || s.Total == 0 {
		return 0, false
	}
	return s.Total * s.ExchangeRate, true
}

func (s State) clone() State {
	out := s
	out.Duties = cloneAmounts(s.Duties)
	out.National = cloneAmounts(s.National)
	out.Internal = cloneAmounts(s.Internal)
	out.Costs = cloneAmounts(s.Costs)
	return out
}

func cloneAmounts(in map[Line]float64) map[Line]float64 {
	if in == nil {
		return nil
	}
	out := make(map[Line]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Stage identifies one step of the pipeline.
type Stage int

const (
	StageCIF Stage = iota
	StageDuties
	StageNationalTaxes
	StageInternalTaxes
	StageOtherCosts
	StageTotal
)

var stageNames = [...]string{"cif", "duties", "national_taxes", "internal_taxes", "other_costs", "total"}

func (s Stage) String() string {
	if s < StageCIF || s > StageTotal {
		return "unknown"
	}
	return stageNames[s]
}

// StageObserver is told about every completed stage, in order.
type StageObserver func(stage Stage, state State)

// Pipeline runs the stages. The zero value is ready to use.
type Pipeline struct {
	// IncludeNationalTaxes adds NationalTaxes to Total. Off by default.
	IncludeNationalTaxes bool
	Observer             StageObserver
}

type stageFunc func(p Pipeline, s *State, in Input)

var stages = [...]stageFunc{
	StageCIF:           runCIF,
	StageDuties:        runDuties,
	StageNationalTaxes: runNationalTaxes,
	StageInternalTaxes: runInternalTaxes,
	StageOtherCosts:    runOtherCosts,
	StageTotal:         runTotal,
}

// Calculate runs a default pipeline over in from a zero state.
func Calculate(in Input) State {
	return Pipeline{}.Run(State{}, in)
}

// Run recomputes every stage from CIF. Rate fields carry over from prev.
func (p Pipeline) Run(prev State, in Input) State {
	return p.RunFrom(StageCIF, prev, in)
}

// RunFrom recomputes from the given stage onwards, keeping the values prev
// holds for earlier stages.
func (p Pipeline) RunFrom(from Stage, prev State, in Input) State {
	if from < StageCIF || from > StageTotal {
		from = StageCIF
	}

	s := prev.clone()
	for stage := from; stage <= StageTotal; stage++ {
		stages[stage](p, &s, in)
		if p.Observer != nil {
			p.Observer(stage, s)
		}
	}
	return s
}

func runCIF(_ Pipeline, s *State, in Input) {
	s.FOB = in.FOB
	s.Freight = in.Freight
	s.Insurance = in.Insurance
	s.CIF = in.FOB + in.Freight + in.Insurance
}

func runDuties(_ Pipeline, s *State, in Input) {
	s.Duties, s.TaxesCollected = resolveGroup(DutyLines, in.Lines, s.CIF)
}

func runNationalTaxes(_ Pipeline, s *State, in Input) {
	s.National, s.NationalTaxes = resolveGroup(NationalTaxLines, in.Lines, s.CIF)
}

func runInternalTaxes(_ Pipeline, s *State, in Input) {
	s.Internal, s.InternalTaxes = resolveGroup(InternalTaxLines, in.Lines, s.CIF)
}

func runOtherCosts(_ Pipeline, s *State, in Input) {
	s.Costs = make(map[Line]float64, len(CostLines))
	s.OtherCosts = 0
	for _, line := range CostLines {
		amount := in.Costs[line]
		s.Costs[line] = amount
		s.OtherCosts += amount
	}
}

func runTotal(p Pipeline, s *State, _ Input) {
	s.Total = s.CIF + s.TaxesCollected + s.InternalTaxes + s.OtherCosts
	if p.IncludeNationalTaxes {
		s.Total += s.NationalTaxes
	}
}

// resolveGroup sums a group in its declared order so repeated runs add the
// same floats in the same sequence.
func resolveGroup(group []Line, items map[Line]LineItem, cif float64) (map[Line]float64, float64) {
	resolved := make(map[Line]float64, len(group))
	sum := 0.0
	for _, line := range group {
		item, ok := items[line]
		if !ok {
			resolved[line] = 0
			continue
		}
		amount := ResolveLineValue(item.Value, item.Mode, cif)
		resolved[line] = amount
		sum += amount
	}
	return resolved, sum
}
