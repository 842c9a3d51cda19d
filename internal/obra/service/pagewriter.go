package service

import (
	"github.com/go-pdf/fpdf"
)

// Geometría A4 en milímetros
const (
	pageWidth   = 210.0
	pageHeight  = 297.0
	pageMargin  = 10.0
	usableWidth = pageWidth - 2*pageMargin

	lineHeight    = 5.0
	titleFontSize = 14.0
	sectionSize   = 11.0
	bodyFontSize  = 9.0
)

// pageWriter estado de composición sobre un documento en curso. El control
// de salto de página es manual: cada bloque reserva su altura antes de
// escribir y nunca queda cortado por el borde inferior.
type pageWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newPageWriter() *pageWriter {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.AddPage()
	return &pageWriter{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// ensure garantiza espacio vertical; devuelve true si hubo salto de página
func (w *pageWriter) ensure(needed float64) bool {
	if w.pdf.GetY()+needed <= pageHeight-pageMargin {
		return false
	}
	w.pdf.AddPage()
	w.pdf.SetY(pageMargin)
	return true
}

func (w *pageWriter) title(text string) {
	w.ensure(12)
	w.pdf.SetFont("Helvetica", "B", titleFontSize)
	w.pdf.CellFormat(usableWidth, 10, w.tr(text), "", 1, "C", false, 0, "")
	w.pdf.Ln(2)
}

func (w *pageWriter) sectionTitle(text string) {
	w.ensure(10)
	w.pdf.SetFont("Helvetica", "B", sectionSize)
	w.pdf.CellFormat(usableWidth, 7, w.tr(text), "", 1, "L", false, 0, "")
	w.pdf.Ln(1)
}

// keyValue par etiqueta negrita y valor en la misma línea
func (w *pageWriter) keyValue(label, value string) {
	w.ensure(lineHeight)
	w.pdf.SetFont("Helvetica", "B", bodyFontSize)
	w.pdf.CellFormat(48, lineHeight, w.tr(label), "", 0, "L", false, 0, "")
	w.pdf.SetFont("Helvetica", "", bodyFontSize)
	w.pdf.CellFormat(usableWidth-48, lineHeight, w.tr(value), "", 1, "L", false, 0, "")
}

// paragraph texto envuelto al ancho útil, línea por línea para que el
// salto de página caiga entre líneas y no dentro de una
func (w *pageWriter) paragraph(text string) {
	if text == "" {
		return
	}
	w.pdf.SetFont("Helvetica", "", bodyFontSize)
	for _, line := range w.pdf.SplitText(w.tr(text), usableWidth) {
		w.ensure(lineHeight)
		w.pdf.CellFormat(usableWidth, lineHeight, line, "", 1, "L", false, 0, "")
	}
}

func (w *pageWriter) spacer(h float64) {
	w.pdf.Ln(h)
}

func (w *pageWriter) separator() {
	w.ensure(4)
	y := w.pdf.GetY() + 2
	w.pdf.SetDrawColor(180, 180, 180)
	w.pdf.Line(pageMargin, y, pageWidth-pageMargin, y)
	w.pdf.SetDrawColor(0, 0, 0)
	w.pdf.SetY(y + 2)
}
