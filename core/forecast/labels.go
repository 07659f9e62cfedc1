package forecast

import "github.com/kilianp07/regcast/core/model"

var methodLabels = map[string]map[model.Method]string{
	"en": {
		model.MethodLinear:  "Linear regression only",
		model.MethodBlended: "Linear regression blended with Newton polynomial interpolation",
	},
	"id": {
		model.MethodLinear:  "Regresi Linier",
		model.MethodBlended: "Kombinasi Regresi Linier dan Interpolasi Polinom Newton",
	},
}

var noDataMessages = map[string]string{
	"en": "no data found for the selected category",
	"id": "Data tidak ditemukan untuk jenis kendaraan yang dipilih",
}

// Languages lists the supported label languages.
func Languages() []string { return []string{"en", "id"} }

// MethodLabel returns the human readable name of m. Unknown languages fall
// back to English.
func MethodLabel(m model.Method, lang string) string {
	labels, ok := methodLabels[lang]
	if !ok {
		labels = methodLabels["en"]
	}
	return labels[m]
}

// NoDataMessage returns the localized message for a NoDataError.
func NoDataMessage(lang string) string {
	if msg, ok := noDataMessages[lang]; ok {
		return msg
	}
	return noDataMessages["en"]
}
