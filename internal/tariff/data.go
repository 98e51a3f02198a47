package tariff

var seedClassifications = []Classification{
	{Code: "8471.30.11", Description: "Máquinas automáticas para tratamiento o procesamiento de datos portátiles"},
	{Code: "8471.41.00", Description: "Unidades de procesamiento, digitales"},
	{Code: "8471.49.00", Description: "Las demás máquinas automáticas para tratamiento de datos"},
	{Code: "8528.42.10", Description: "Monitores con tubo de rayos catódicos policromáticos"},
	{Code: "8528.42.90", Description: "Los demás monitores con tubo de rayos catódicos"},
	{Code: "8443.32.10", Description: "Impresoras láser"},
	{Code: "8517.12.00", Description: "Teléfonos móviles (celulares)"},
	{Code: "9403.10.00", Description: "Muebles de metal del tipo de los utilizados en oficinas"},
}

var seedRates = map[string]Rates{
	"8471.30.11": {Duty: 0, VAT: 21},
	"8471.41.00": {Duty: 0, VAT: 21},
	"8528.42.10": {Duty: 16, VAT: 21},
	"8517.12.00": {Duty: 16, VAT: 21},
}

// SeedClassifications returns the built-in classification rows.
func SeedClassifications() []Classification {
	out := make([]Classification, len(seedClassifications))
	copy(out, seedClassifications)
	return out
}

// SeedRates returns the built-in rate rows keyed by code.
func SeedRates() map[string]Rates {
	out := make(map[string]Rates, len(seedRates))
	for code, r := range seedRates {
		out[code] = r
	}
	return out
}
