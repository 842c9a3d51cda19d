package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/andamio/obralog/internal/obra/entity"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	mainSheetName     = "Planilla Principal"
	workLogSheetName  = "Libro de Obra"
	photoLogSheetName = "Anexo Fotográfico"

	// Límite de nombre de hoja en libros xlsx
	maxSheetNameLen = 31

	dateLayout = "02/01/2006"
)

var mainSheetHeaders = []interface{}{
	"ITEM", "N° RUBRO", "DESCRIPCIÓN", "UNIDAD",
	"CANTIDAD CONTRACTUAL", "PRECIO UNITARIO", "MONTO CONTRACTUAL",
	"CANTIDADES - PREVIO", "CANTIDADES - ESTE PERIODO", "CANTIDADES - ACUMULADO", "CANTIDADES - INCREMENTO/DECREMENTO",
	"VALORES - PREVIO", "VALORES - ESTE PERIODO", "VALORES - ACUMULADO", "VALORES - INCREMENTO/DECREMENTO",
	"% AVANCE",
}

// ReportService genera el reporte multi-hoja del proyecto en formato xlsx.
// Es una proyección de solo lectura: no muta el proyecto.
type ReportService struct {
	organization string
	department   string
	section      string
}

func NewReportService(organization, department, section string) *ReportService {
	return &ReportService{
		organization: organization,
		department:   department,
		section:      section,
	}
}

// BuildExcelReport arma el libro completo: planilla principal, una hoja por
// rubro, libro de obra y anexo fotográfico. Construcción íntegra en memoria;
// si algo falla no se expone ningún archivo parcial.
func (s *ReportService) BuildExcelReport(project *entity.Project, notifier Notifier) (*excelize.File, string, error) {
	if project == nil {
		notifier.Notify(Notification{
			Title:       "Error",
			Description: "No hay datos del proyecto para exportar.",
			Severity:    SeverityDestructive,
		})
		return nil, "", ErrNoExportData
	}

	agg := AggregateProject(project.Rubros, project.DailyLogs)
	SortAggregatedRubros(agg.Rubros)
	logsAsc := SortLogsByDateAsc(project.DailyLogs)
	rubrosByID := indexRubros(project.Rubros)

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", mainSheetName)

	if err := s.writeMainSheet(f, project, agg); err != nil {
		return nil, "", fmt.Errorf("main sheet: %w", err)
	}

	usedNames := map[string]bool{
		mainSheetName:     true,
		workLogSheetName:  true,
		photoLogSheetName: true,
	}
	for _, ar := range agg.Rubros {
		if err := s.writeRubroSheet(f, project, ar, logsAsc, usedNames); err != nil {
			return nil, "", fmt.Errorf("rubro sheet %s: %w", ar.Rubro.RubroNumber, err)
		}
	}

	if err := s.writeWorkLogSheet(f, project, logsAsc); err != nil {
		return nil, "", fmt.Errorf("work log sheet: %w", err)
	}
	if err := s.writePhotoLogSheet(f, project, logsAsc, rubrosByID); err != nil {
		return nil, "", fmt.Errorf("photo log sheet: %w", err)
	}

	filename := exportFilename(project.Name, "Reporte_Completo", "xlsx")

	notifier.Notify(Notification{
		Title:       "Exportación Exitosa",
		Description: "El reporte completo del proyecto ha sido generado en Excel.",
		Severity:    SeveritySuccess,
	})
	return f, filename, nil
}

func (s *ReportService) writeMainSheet(f *excelize.File, project *entity.Project, agg ProjectAggregate) error {
	sheet := mainSheetName

	rows := [][]interface{}{
		{s.organization},
		{s.department},
		{s.section},
		{fmt.Sprintf("CONSTRUCCIÓN DEL %s", project.Name)},
		{fmt.Sprintf("CÓDIGO DEL PROCESO: %s", orNA(project.ContractNumber))},
		{"APOYO DE FACTURA - VALORES"},
		{},
		{"PROYECTO:", project.Name},
		{"UBICACIÓN:", project.Location},
		{"PROVINCIA:", orNA(project.Province)},
		{"CONTRATISTA:", project.Contractor},
		{"FECHA INICIO:", formatDatePtr(project.StartDate)},
		{"FECHA TERMINACION:", formatDatePtr(project.EndDateContractual)},
		{"MONTO DEL CONTRATO:", formatCurrency(agg.TotalContractAmount)},
		{"ANTICIPO DEL CONTRATO 50%:", formatCurrency(agg.TotalContractAmount.Div(decimal.NewFromInt(2)))},
		{},
		mainSheetHeaders,
	}

	w := newSheetWriter(f, sheet)
	if err := w.writeRows(rows); err != nil {
		return err
	}
	headerRow := w.row

	// Estilo de cabecera de tabla: negrita con relleno
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	lastCol, _ := excelize.ColumnNumberToName(len(mainSheetHeaders))
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), boldStyle)

	row := headerRow
	for i, ar := range agg.Rubros {
		row++
		data := []interface{}{
			i + 1,
			orDash(ar.Rubro.RubroNumber),
			ar.Rubro.Name,
			ar.Rubro.Unit,
			formatNumber(ar.Rubro.Quantity),
			formatCurrency(ar.Rubro.UnitPrice),
			formatCurrency(ar.ContractAmount),
			// Previo e incremento/decremento siempre 0: no existe concepto
			// de periodo, solo acumulación de vida completa.
			formatNumber(decimal.Zero),
			formatNumber(ar.ExecutedQuantity),
			formatNumber(ar.ExecutedQuantity),
			formatNumber(decimal.Zero),
			formatCurrency(decimal.Zero),
			formatCurrency(ar.ExecutedValue),
			formatCurrency(ar.ExecutedValue),
			formatCurrency(decimal.Zero),
			formatNumber(ar.ProgressPercentage) + "%",
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &data); err != nil {
			return err
		}
	}

	trailer := []interface{}{"PROGRESO GENERAL DEL PROYECTO:", formatNumber(agg.OverallProgress) + "%"}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row+2), &trailer); err != nil {
		return err
	}

	// Anchos fijos para salida determinista
	colWidths := []float64{5, 8, 40, 8, 12, 12, 15, 12, 12, 12, 15, 12, 12, 12, 15, 10}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

func (s *ReportService) writeRubroSheet(f *excelize.File, project *entity.Project, ar AggregatedRubro, logsAsc []entity.DailyLog, usedNames map[string]bool) error {
	label := strings.TrimSpace(ar.Rubro.RubroNumber)
	if label == "" {
		label = ar.Rubro.Name
	}
	sheet := uniqueSheetName("Rubro "+label, usedNames)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"ANEXO PLANILLA - DETALLE DE RUBRO"},
		{},
		{"PROYECTO:", project.Name},
		{"RUBRO:", strings.TrimSpace(ar.Rubro.RubroNumber + " " + ar.Rubro.Name)},
		{"UNIDAD:", ar.Rubro.Unit},
		{"CANTIDAD CONTRATADA:", formatNumber(ar.Rubro.Quantity)},
		{"PRECIO UNITARIO:", formatCurrency(ar.Rubro.UnitPrice)},
		{"MONTO CONTRACTUAL:", formatCurrency(ar.ContractAmount)},
		{},
		{"DETALLES DE AVANCE DIARIO"},
		{"Fecha", "Cantidad Ejecutada Hoy", "Valor Ejecutado Hoy", "Fotos (Nombres/IDs)"},
	}

	// Solo registros con cantidad ejecutada positiva, en orden cronológico
	for _, log := range logsAsc {
		for _, ru := range log.RubroUpdates {
			if ru.RubroID != ar.Rubro.ID {
				continue
			}
			qty := ParseQuantity(ru.QuantityExecutedToday)
			if !qty.IsPositive() {
				continue
			}
			rows = append(rows, []interface{}{
				formatDate(log.Date),
				formatNumber(qty),
				formatCurrency(qty.Mul(ar.Rubro.UnitPrice)),
				photoNames(ru.Photos),
			})
		}
	}

	rows = append(rows,
		[]interface{}{},
		[]interface{}{"TOTAL CANTIDAD EJECUTADA:", formatNumber(ar.ExecutedQuantity)},
		[]interface{}{"TOTAL VALOR EJECUTADO:", formatCurrency(ar.ExecutedValue)},
		[]interface{}{"PORCENTAJE DE AVANCE:", formatNumber(ar.ProgressPercentage) + "%"},
	)

	if err := newSheetWriter(f, sheet).writeRows(rows); err != nil {
		return err
	}

	colWidths := []float64{15, 20, 20, 30}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

func (s *ReportService) writeWorkLogSheet(f *excelize.File, project *entity.Project, logsAsc []entity.DailyLog) error {
	sheet := workLogSheetName
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"LIBRO DE OBRA"},
		{},
		{"PROYECTO:", project.Name},
		{},
		{"Fecha", "Novedades / Observaciones", "Personal", "Maquinaria", "Condiciones Climáticas", "Trabajo Realizado"},
	}
	for _, log := range logsAsc {
		rows = append(rows, []interface{}{
			formatDate(log.Date),
			log.Observations,
			log.Personnel,
			log.Machinery,
			log.Weather,
			log.WorkPerformed,
		})
	}

	if err := newSheetWriter(f, sheet).writeRows(rows); err != nil {
		return err
	}

	colWidths := []float64{15, 50, 30, 30, 20, 20}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

func (s *ReportService) writePhotoLogSheet(f *excelize.File, project *entity.Project, logsAsc []entity.DailyLog, rubrosByID map[string]entity.Rubro) error {
	sheet := photoLogSheetName
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"ANEXO FOTOGRÁFICO"},
		{},
		{"PROYECTO:", project.Name},
		{},
		{"Fecha del Registro", "Rubro Asociado", "Nombre Foto / ID", "Comentario Foto"},
	}
	for _, log := range logsAsc {
		for _, ru := range log.RubroUpdates {
			if len(ru.Photos) == 0 {
				continue
			}
			identifier := "Rubro Desconocido"
			if rubro, ok := rubrosByID[ru.RubroID]; ok {
				identifier = strings.TrimSpace(rubro.RubroNumber + " " + rubro.Name)
			}
			for _, photo := range ru.Photos {
				name := photo.Name
				if name == "" {
					name = photo.ID
				}
				rows = append(rows, []interface{}{
					formatDate(log.Date),
					identifier,
					name,
					photo.Comment,
				})
			}
		}
	}

	if err := newSheetWriter(f, sheet).writeRows(rows); err != nil {
		return err
	}

	colWidths := []float64{20, 30, 30, 40}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

// ---- helpers ----

// sheetWriter escribe filas consecutivas manteniendo el cursor explícito.
// Las filas vacías avanzan el cursor sin escribir celdas.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func newSheetWriter(f *excelize.File, sheet string) *sheetWriter {
	return &sheetWriter{f: f, sheet: sheet, row: 0}
}

func (w *sheetWriter) writeRow(row []interface{}) error {
	w.row++
	if len(row) == 0 {
		return nil
	}
	return w.f.SetSheetRow(w.sheet, fmt.Sprintf("A%d", w.row), &row)
}

func (w *sheetWriter) writeRows(rows [][]interface{}) error {
	for _, row := range rows {
		if err := w.writeRow(row); err != nil {
			return err
		}
	}
	return nil
}

var sheetNameSanitizer = strings.NewReplacer(
	":", "", "\\", "", "/", "", "?", "", "*", "", "[", "", "]", "", "'", "",
)

// uniqueSheetName trunca al límite del formato y desambigua colisiones
// con sufijo ~k (dos rubros con etiqueta truncada idéntica no deben
// sobreescribirse la hoja).
func uniqueSheetName(name string, used map[string]bool) string {
	name = sheetNameSanitizer.Replace(name)
	base := truncateRunes(name, maxSheetNameLen)
	candidate := base
	for k := 2; used[candidate]; k++ {
		suffix := fmt.Sprintf("~%d", k)
		candidate = truncateRunes(base, maxSheetNameLen-len(suffix)) + suffix
	}
	used[candidate] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func indexRubros(rubros []entity.Rubro) map[string]entity.Rubro {
	byID := make(map[string]entity.Rubro, len(rubros))
	for _, r := range rubros {
		byID[r.ID] = r
	}
	return byID
}

func photoNames(photos []entity.Photo) string {
	if len(photos) == 0 {
		return "N/A"
	}
	names := make([]string, 0, len(photos))
	for _, p := range photos {
		if p.Name != "" {
			names = append(names, p.Name)
		} else {
			names = append(names, p.ID)
		}
	}
	return strings.Join(names, ", ")
}

// exportFilename nombre de archivo: espacios del proyecto → guiones bajos
func exportFilename(projectName, suffix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", strings.ReplaceAll(projectName, " ", "_"), suffix, ext)
}

// formatNumber formato fijo de dos decimales
func formatNumber(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatCurrency moneda USD con separador de miles: $1,234.56
func formatCurrency(d decimal.Decimal) string {
	s := d.StringFixed(2)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}

	out := "$" + b.String() + "." + fracPart
	if negative {
		out = "-" + out
	}
	return out
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format(dateLayout)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
