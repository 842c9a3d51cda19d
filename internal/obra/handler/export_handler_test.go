package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/andamio/obralog/internal/obra/entity"
	"github.com/andamio/obralog/internal/obra/repository"
	"github.com/andamio/obralog/internal/obra/service"
	"github.com/andamio/obralog/internal/obra/testutil"
	"github.com/andamio/obralog/internal/shared/imgfetch"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type noImageLoader struct{}

func (noImageLoader) Load(context.Context, string) (*imgfetch.LoadedImage, error) {
	return nil, errors.New("sin almacenamiento en pruebas")
}

func setupExportTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	projectSvc := service.NewProjectService(repos.Project, zap.NewNop())
	reportSvc := service.NewReportService("GAD DE PRUEBA", "OBRAS PÚBLICAS", "FISCALIZACIÓN")
	pdfSvc := service.NewPDFService(noImageLoader{}, zap.NewNop())
	h := NewExportHandler(projectSvc, reportSvc, pdfSvc)

	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/projects/:id/export/excel", h.ExcelReport)
	api.GET("/projects/:id/export/libro-obra", h.WorkLogPDF)
	api.GET("/projects/:id/export/anexo-fotografico", h.PhotoAnnexPDF)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func seedExportProject(t *testing.T, env *testutil.TestEnv) *entity.Project {
	t.Helper()
	project := testutil.SeedTestProject(t, env.DB, "proj-exp-001", "Via al Aeropuerto")
	testutil.SeedTestRubro(t, env.DB, "rub-exp-001", project.ID, "1.1", "Excavación", "100", "10", 0)
	date, _ := time.Parse("2006-01-02", "2025-05-06")
	testutil.SeedTestDailyLog(t, env.DB, "log-exp-001", project.ID, date, entity.RubroUpdateList{
		{RubroID: "rub-exp-001", QuantityExecutedToday: "40"},
	})
	return project
}

func TestExportExcelDownload(t *testing.T) {
	env := setupExportTest(t)
	token := testutil.DefaultTestToken()
	project := seedExportProject(t, env)

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/projects/"+project.ID+"/export/excel", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="Via_al_Aeropuerto_Reporte_Completo.xlsx"` {
		t.Errorf("Content-Disposition = %q", cd)
	}

	// El adjunto debe ser un libro legible con el avance agregado
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("attachment is not a valid workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Planilla Principal", "P18")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "40.00%" {
		t.Errorf("P18 = %q, want 40.00%%", got)
	}
}

func TestExportWorkLogPDFDownload(t *testing.T) {
	env := setupExportTest(t)
	token := testutil.DefaultTestToken()
	project := seedExportProject(t, env)

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/projects/"+project.ID+"/export/libro-obra", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Errorf("attachment does not look like a PDF")
	}
}

func TestExportPhotoAnnexNoPhotos(t *testing.T) {
	env := setupExportTest(t)
	token := testutil.DefaultTestToken()
	project := seedExportProject(t, env)

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/projects/"+project.ID+"/export/anexo-fotografico", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["message"] != "no hay datos para exportar" {
		t.Errorf("message = %v", resp["message"])
	}
}

func TestExportUnknownProject(t *testing.T) {
	env := setupExportTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/projects/no-existe/export/excel", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
