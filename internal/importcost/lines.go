package importcost

// Mode selects how a line item's value is interpreted.
type Mode string

const (
	ModePercent  Mode = "percent"
	ModeAbsolute Mode = "absolute"
)

// ParseMode maps a selector value to a Mode. Anything other than "absolute"
// is treated as percent, which is also what a missing selector means.
func ParseMode(raw string) Mode {
	if Mode(raw) == ModeAbsolute {
		return ModeAbsolute
	}
	return ModePercent
}

// Line names one cost line of the calculation.
type Line string

// Duty and border-tax lines.
const (
	CustomsDuty         Line = "customs_duty"
	AdValorem           Line = "ad_valorem"
	SpecificDuties      Line = "specific_duties"
	StatisticsFee       Line = "statistics_fee"
	DestinationCheckFee Line = "destination_check_fee"
	AntiDumpingDuty     Line = "anti_dumping_duty"
	ExportDuty          Line = "export_duty"
)

// National tax lines.
const (
	VAT                      Line = "vat"
	CommercializationFee     Line = "commercialization_fee"
	IncomeTaxWithholding     Line = "income_tax_withholding"
	GrossReceiptsWithholding Line = "gross_receipts_withholding"
)

// Internal (excise) tax lines.
const (
	FuelTax     Line = "fuel_tax"
	LuxuryTax   Line = "luxury_tax"
	BeverageTax Line = "beverage_tax"
	OtherExcise Line = "other_excise"
)

// Other cost lines. These are always absolute amounts.
const (
	BrokerFee      Line = "broker_fee"
	BankCharges    Line = "bank_charges"
	AgentFee       Line = "agent_fee"
	Storage        Line = "storage"
	LocalTransport Line = "local_transport"
	Miscellaneous  Line = "miscellaneous"
)

// Line groups in summation order.
var (
	DutyLines = []Line{
		CustomsDuty, AdValorem, SpecificDuties, StatisticsFee,
		DestinationCheckFee, AntiDumpingDuty, ExportDuty,
	}
	NationalTaxLines = []Line{VAT, CommercializationFee, IncomeTaxWithholding, GrossReceiptsWithholding}
	InternalTaxLines = []Line{FuelTax, LuxuryTax, BeverageTax, OtherExcise}
	CostLines        = []Line{BrokerFee, BankCharges, AgentFee, Storage, LocalTransport, Miscellaneous}
)

// LineItem is a value paired with its mode selector.
type LineItem struct {
	Value float64 `json:"value"`
	Mode  Mode    `json:"mode"`
}

// ResolveLineValue returns the contribution of a line: cif*value/100 in
// percent mode, value otherwise.
func ResolveLineValue(value float64, mode Mode, cif float64) float64 {
	if ParseMode(string(mode)) == ModePercent {
		return cif * value / 100
	}
	return value
}
