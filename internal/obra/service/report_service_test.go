package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/andamio/obralog/internal/obra/entity"
	"github.com/shopspring/decimal"
)

func testReportService() *ReportService {
	return NewReportService("GAD MUNICIPAL DE PRUEBA", "OBRAS PÚBLICAS", "FISCALIZACIÓN")
}

func testProject() *entity.Project {
	r1 := rubro("r1", "1.2", "100", "10")
	r2 := rubro("r2", "1.10", "50", "4")
	return &entity.Project{
		ID:         "p1",
		Name:       "Puente Rio Verde",
		Contractor: "Constructora XYZ",
		Location:   "Shushufindi",
		Status:     entity.ProjectStatusInProgress,
		Rubros:     []entity.Rubro{r1, r2},
		DailyLogs: []entity.DailyLog{
			logWithUpdates("2025-03-02", entity.RubroUpdate{
				RubroID:               "r1",
				QuantityExecutedToday: "30",
				Photos: []entity.Photo{
					{ID: "f1", Name: "zapata.jpg", URL: "http://example.com/zapata.jpg", Comment: "Zapata norte"},
				},
			}),
			logWithUpdates("2025-03-01", entity.RubroUpdate{
				RubroID:               "r1",
				QuantityExecutedToday: "20",
			}),
		},
	}
}

func TestBuildExcelReportNilProject(t *testing.T) {
	var got []Notification
	notifier := NotifierFunc(func(n Notification) { got = append(got, n) })

	_, _, err := testReportService().BuildExcelReport(nil, notifier)
	if !errors.Is(err, ErrNoExportData) {
		t.Fatalf("err = %v, want ErrNoExportData", err)
	}
	if len(got) != 1 || got[0].Severity != SeverityDestructive {
		t.Fatalf("notifications = %+v, want one destructive", got)
	}
}

func TestBuildExcelReportSheetLayout(t *testing.T) {
	f, filename, err := testReportService().BuildExcelReport(testProject(), NopNotifier)
	if err != nil {
		t.Fatalf("BuildExcelReport: %v", err)
	}
	defer f.Close()

	if filename != "Puente_Rio_Verde_Reporte_Completo.xlsx" {
		t.Errorf("filename = %q", filename)
	}

	sheets := f.GetSheetList()
	want := []string{"Planilla Principal", "Rubro 1.2", "Rubro 1.10", "Libro de Obra", "Anexo Fotográfico"}
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v, want %v", sheets, want)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Fatalf("sheets = %v, want %v", sheets, want)
		}
	}
}

func TestBuildExcelReportMainSheetValues(t *testing.T) {
	f, _, err := testReportService().BuildExcelReport(testProject(), NopNotifier)
	if err != nil {
		t.Fatalf("BuildExcelReport: %v", err)
	}
	defer f.Close()

	cell := func(ref string) string {
		v, err := f.GetCellValue("Planilla Principal", ref)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", ref, err)
		}
		return v
	}

	// Fila 18: primer rubro tras ordenar jerárquicamente (1.2 antes que 1.10)
	if got := cell("B18"); got != "1.2" {
		t.Errorf("B18 = %q, want 1.2", got)
	}
	if got := cell("B19"); got != "1.10" {
		t.Errorf("B19 = %q, want 1.10", got)
	}
	// 50 de 100 ejecutado al precio 10
	if got := cell("N18"); got != "$500.00" {
		t.Errorf("N18 = %q, want $500.00", got)
	}
	if got := cell("P18"); got != "50.00%" {
		t.Errorf("P18 = %q, want 50.00%%", got)
	}
	// Total contratado: 100*10 + 50*4 = 1200
	if got := cell("B14"); got != "$1,200.00" {
		t.Errorf("B14 = %q, want $1,200.00", got)
	}
	// Progreso general: 500 de 1200
	if got := cell("B21"); got != "41.67%" {
		t.Errorf("B21 = %q, want 41.67%%", got)
	}
}

func TestBuildExcelReportRubroSheetChronology(t *testing.T) {
	f, _, err := testReportService().BuildExcelReport(testProject(), NopNotifier)
	if err != nil {
		t.Fatalf("BuildExcelReport: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Rubro 1.2")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}

	// Filas 12 y 13: avances en orden cronológico aunque los registros
	// llegaron en orden inverso
	if got := rows[11][0]; got != "01/03/2025" {
		t.Errorf("first advance date = %q, want 01/03/2025", got)
	}
	if got := rows[12][0]; got != "02/03/2025" {
		t.Errorf("second advance date = %q, want 02/03/2025", got)
	}
}

func TestBuildExcelReportPhotoAnnexRows(t *testing.T) {
	f, _, err := testReportService().BuildExcelReport(testProject(), NopNotifier)
	if err != nil {
		t.Fatalf("BuildExcelReport: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Anexo Fotográfico")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	// Cabecera en la fila 5, única foto en la fila 6
	if len(rows) != 6 {
		t.Fatalf("rows = %d, want 6", len(rows))
	}
	if got := rows[5][2]; got != "zapata.jpg" {
		t.Errorf("photo name = %q, want zapata.jpg", got)
	}
	if !strings.Contains(rows[5][1], "1.2") {
		t.Errorf("rubro column = %q, want it to name rubro 1.2", rows[5][1])
	}
}

func TestUniqueSheetNameCollision(t *testing.T) {
	used := map[string]bool{}
	long := "Rubro " + strings.Repeat("x", 40)

	a := uniqueSheetName(long, used)
	b := uniqueSheetName(long, used)

	if len([]rune(a)) != 31 || len([]rune(b)) != 31 {
		t.Fatalf("lengths = %d, %d, want 31", len([]rune(a)), len([]rune(b)))
	}
	if a == b {
		t.Fatalf("collision not disambiguated: %q", a)
	}
	if !strings.HasSuffix(b, "~2") {
		t.Errorf("second name = %q, want ~2 suffix", b)
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"1234.5", "$1,234.50"},
		{"1234567.891", "$1,234,567.89"},
		{"-42", "-$42.00"},
	}
	for _, tc := range cases {
		if got := formatCurrency(decimal.RequireFromString(tc.in)); got != tc.want {
			t.Errorf("formatCurrency(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
