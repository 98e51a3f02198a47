package view

import "github.com/Simplici0/tradeflow/internal/importcost"

// Input field ids.
const (
	FieldFOB       = "valor-fob"
	FieldFreight   = "flete-internacional"
	FieldInsurance = "seguro-internacional"
	FieldCIF       = "valor-cif"

	FieldClassificationCode = "posicion-arancelaria"
	FieldDescription        = "descripcion-tecnica"
)

// Display ids.
const (
	DisplayFOB       = "summary-fob"
	DisplayFreight   = "summary-flete"
	DisplayInsurance = "summary-seguro"
	DisplayCIF       = "summary-cif"

	DisplayTaxesCollected = "subtotal-tributos"
	DisplayNationalTaxes  = "summary-impuestos-nacionales"
	DisplayInternalTaxes  = "subtotal-internos"
	DisplayOtherCosts     = "subtotal-gastos"
	DisplayTotal          = "total-final"
	DisplayTotalLocal     = "total-ars"
	DisplayRate           = "dolar-valor"
	DisplayCostLocal      = "costo-ars"

	PanelSearchResults = "search-results"
)

// modeSuffix turns a line field id into its selector id.
const modeSuffix = "-tipo"

// lineFields maps each resolvable line to its value field.
var lineFields = map[importcost.Line]string{
	importcost.CustomsDuty:         "arancel-externo",
	importcost.AdValorem:           "ad-valorem",
	importcost.SpecificDuties:      "derechos-especificos",
	importcost.StatisticsFee:       "tasa-estadistica",
	importcost.DestinationCheckFee: "comprobacion-destino",
	importcost.AntiDumpingDuty:     "antidumping",
	importcost.ExportDuty:          "derechos-exportacion",

	importcost.VAT:                      "iva",
	importcost.CommercializationFee:     "tasa-comercializacion",
	importcost.IncomeTaxWithholding:     "anticipo-ganancias",
	importcost.GrossReceiptsWithholding: "anticipo-iibb",

	importcost.FuelTax:     "imp-combustibles",
	importcost.LuxuryTax:   "imp-suntuarios",
	importcost.BeverageTax: "imp-bebidas",
	importcost.OtherExcise: "imp-otros",
}

// costFields maps each other-cost line to its amount field.
var costFields = map[importcost.Line]string{
	importcost.BrokerFee:      "honorarios-despachante",
	importcost.BankCharges:    "gastos-bancarios",
	importcost.AgentFee:       "gastos-agente",
	importcost.Storage:        "almacenaje",
	importcost.LocalTransport: "transporte-local",
	importcost.Miscellaneous:  "otros-gastos-misc",
}

// dutyDisplays maps each duty line to its summary display.
var dutyDisplays = map[importcost.Line]string{
	importcost.CustomsDuty:         "summary-arancel",
	importcost.AdValorem:           "summary-advalorem",
	importcost.SpecificDuties:      "summary-especificos",
	importcost.StatisticsFee:       "summary-estadistica",
	importcost.DestinationCheckFee: "summary-comprobacion",
	importcost.AntiDumpingDuty:     "summary-antidumping",
	importcost.ExportDuty:          "summary-exportacion",
}

// LineField returns the value field id of a line, or "" if it has none.
func LineField(line importcost.Line) string {
	if id, ok := lineFields[line]; ok {
		return id
	}
	return costFields[line]
}

// ModeField returns the mode selector id paired with a value field id.
func ModeField(fieldID string) string {
	return fieldID + modeSuffix
}

// StandardFields lists every input field id of the calculator page.
func StandardFields() []string {
	ids := []string{FieldFOB, FieldFreight, FieldInsurance, FieldCIF, FieldClassificationCode, FieldDescription}
	for _, group := range [][]importcost.Line{importcost.DutyLines, importcost.NationalTaxLines, importcost.InternalTaxLines} {
		for _, line := range group {
			ids = append(ids, lineFields[line], ModeField(lineFields[line]))
		}
	}
	for _, line := range importcost.CostLines {
		ids = append(ids, costFields[line])
	}
	return ids
}

// StandardDisplays lists every display id of the calculator page.
func StandardDisplays() []string {
	ids := []string{DisplayFOB, DisplayFreight, DisplayInsurance, DisplayCIF}
	for _, line := range importcost.DutyLines {
		ids = append(ids, dutyDisplays[line])
	}
	return append(ids,
		DisplayTaxesCollected, DisplayNationalTaxes, DisplayInternalTaxes, DisplayOtherCosts,
		DisplayTotal, DisplayTotalLocal, DisplayRate, DisplayCostLocal,
	)
}
