// Package render produces the printable preview of an invoice draft.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	dec "github.com/rezonia/facturador/internal/decimal"
	invoice "github.com/rezonia/facturador/internal/model"
)

func init() {
	// pdfcpu must not create a config dir under $HOME
	model.ConfigPath = "disable"
}

const pageWidth = 190

var documentTitles = map[invoice.DocumentType]string{
	invoice.DocumentTypeA:          "Factura A",
	invoice.DocumentTypeB:          "Factura B",
	invoice.DocumentTypeC:          "Factura C",
	invoice.DocumentTypeCreditNote: "Nota de Crédito",
}

type column struct {
	title string
	width float64
	align string
}

var itemColumns = []column{
	{"Código", 25, "L"},
	{"Descripción", 60, "L"},
	{"Cant.", 15, "R"},
	{"P. Unit.", 25, "R"},
	{"IVA %", 15, "R"},
	{"Desc.", 20, "R"},
	{"Total", 30, "R"},
}

// DocumentTitle returns the printed name of a document type
func DocumentTitle(t invoice.DocumentType) string {
	if title, ok := documentTitles[t]; ok {
		return title
	}
	return "Comprobante " + string(t)
}

// RenderDraft writes an A4 preview of the draft. Amounts are shown rounded to
// cents; the draft itself is not modified.
func RenderDraft(w io.Writer, draft *invoice.InvoiceDraft) error {
	if draft == nil {
		return fmt.Errorf("draft is required")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(DocumentTitle(draft.Type), true)
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(pageWidth, 10, tr(DocumentTitle(draft.Type)), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(pageWidth, 6, tr(fmt.Sprintf("Borrador %s - Punto de venta %s - %s", draft.ID, draft.PointOfSale, draft.Currency)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Client
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(pageWidth, 8, "Cliente", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	if c := draft.Client; c != nil {
		half := float64(pageWidth) / 2
		pdf.CellFormat(half, 7, tr("Razón social: "+c.BusinessName), "LB", 0, "L", false, 0, "")
		pdf.CellFormat(half, 7, tr(fmt.Sprintf("%s: %s", c.DocumentType, c.DocumentNumber)), "RB", 1, "L", false, 0, "")
		pdf.CellFormat(half, 7, tr("Domicilio: "+c.Address), "LB", 0, "L", false, 0, "")
		pdf.CellFormat(half, 7, tr("Provincia: "+c.Province), "RB", 1, "L", false, 0, "")
		pdf.CellFormat(pageWidth, 7, tr("Email: "+c.Email), "LRB", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(pageWidth, 7, "Sin cliente asignado", "LRB", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	// Items
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	for i, col := range itemColumns {
		ln := 0
		if i == len(itemColumns)-1 {
			ln = 1
		}
		pdf.CellFormat(col.width, 7, tr(col.title), "1", ln, "C", true, 0, "")
	}

	pdf.SetFont("Arial", "", 9)
	for _, item := range draft.Items {
		row := []string{
			item.Code,
			item.Description,
			strconv.Itoa(item.Quantity),
			dec.FormatARS(item.UnitPrice),
			item.VATRate.String(),
			dec.FormatARS(item.Discount),
			dec.FormatARS(item.Total),
		}
		for i, col := range itemColumns {
			ln := 0
			if i == len(itemColumns)-1 {
				ln = 1
			}
			pdf.CellFormat(col.width, 6, tr(row[i]), "1", ln, col.align, false, 0, "")
		}
	}
	if len(draft.Items) == 0 {
		pdf.CellFormat(pageWidth, 6, "Sin items", "1", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	// Totals
	labelWidth := float64(pageWidth) - 50
	totals := []struct {
		label string
		value string
	}{
		{"Subtotal", dec.FormatARS(draft.Subtotal)},
		{"IVA", dec.FormatARS(draft.VATTotal)},
		{"Total", dec.FormatARS(draft.GrandTotal)},
	}
	for i, row := range totals {
		style := ""
		if i == len(totals)-1 {
			style = "B"
		}
		pdf.SetFont("Arial", style, 11)
		pdf.CellFormat(labelWidth, 7, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(50, 7, row.value, "1", 1, "R", false, 0, "")
	}

	if draft.Notes != "" {
		pdf.Ln(5)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(pageWidth, 5, tr(draft.Notes), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}
	return pdf.Output(w)
}

// RenderDraftBytes renders the preview into memory
func RenderDraftBytes(draft *invoice.InvoiceDraft) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderDraft(&buf, draft); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks that data is a well-formed PDF document
func Validate(data []byte) error {
	if err := api.Validate(bytes.NewReader(data), relaxedConfig()); err != nil {
		return fmt.Errorf("invalid PDF: %w", err)
	}
	return nil
}

// PageCount returns the number of pages in data
func PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), relaxedConfig())
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return n, nil
}

func relaxedConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
