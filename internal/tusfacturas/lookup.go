package tusfacturas

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rezonia/facturador/internal/model"
)

// Fallback codes used when a lookup has no match
const (
	DefaultDocumentTypeCode = "1" // Factura A
	DefaultProvinceCode     = "1" // Buenos Aires
	FixedPointOfSale        = "0001"
)

// Mapped is a lookup result that records whether the fallback was used
type Mapped struct {
	Value     string
	Defaulted bool
}

var documentTypeCodes = map[model.DocumentType]string{
	model.DocumentTypeA:          "1",
	model.DocumentTypeB:          "6",
	model.DocumentTypeC:          "11",
	model.DocumentTypeCreditNote: "3",
}

var clientDocumentTypes = map[model.ClientDocumentType]string{
	model.ClientDocumentCUIT: "CUIT",
	model.ClientDocumentDNI:  "DNI",
	model.ClientDocumentCUIL: "CUIL",
}

// AFIP province codes
var provinceCodes = map[string]string{
	"Buenos Aires":                    "1",
	"Ciudad Autónoma de Buenos Aires": "2",
	"Catamarca":                       "3",
	"Chaco":                           "4",
	"Chubut":                          "5",
	"Córdoba":                         "6",
	"Corrientes":                      "7",
	"Entre Ríos":                      "8",
	"Formosa":                         "9",
	"Jujuy":                           "10",
	"La Pampa":                        "11",
	"La Rioja":                        "12",
	"Mendoza":                         "13",
	"Misiones":                        "14",
	"Neuquén":                         "15",
	"Río Negro":                       "16",
	"Salta":                           "17",
	"San Juan":                        "18",
	"San Luis":                        "19",
	"Santa Cruz":                      "20",
	"Santa Fe":                        "21",
	"Santiago del Estero":             "22",
	"Tierra del Fuego":                "23",
	"Tucumán":                         "24",
}

// DocumentTypeCode maps A/B/C/NC to tipo_cbte; anything else falls back to Factura A
func DocumentTypeCode(t model.DocumentType) Mapped {
	if code, ok := documentTypeCodes[model.DocumentType(strings.TrimSpace(string(t)))]; ok {
		return Mapped{Value: code}
	}
	return Mapped{Value: DefaultDocumentTypeCode, Defaulted: true}
}

// ClientDocumentType maps CUIT/DNI/CUIL. There is no fallback: an unknown type
// yields "" and is rejected by Validate.
func ClientDocumentType(t model.ClientDocumentType) (string, bool) {
	v, ok := clientDocumentTypes[model.ClientDocumentType(strings.TrimSpace(string(t)))]
	return v, ok
}

// ProvinceCode maps a province name to its AFIP code; unknown names fall back to Buenos Aires
func ProvinceCode(name string) Mapped {
	if code, ok := provinceCodes[strings.TrimSpace(name)]; ok {
		return Mapped{Value: code}
	}
	return Mapped{Value: DefaultProvinceCode, Defaulted: true}
}

// ProvinceNames lists the mapped province names in code order
func ProvinceNames() []string {
	names := make([]string, 0, len(provinceCodes))
	for name := range provinceCodes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, _ := strconv.Atoi(provinceCodes[names[i]])
		b, _ := strconv.Atoi(provinceCodes[names[j]])
		return a < b
	})
	return names
}
