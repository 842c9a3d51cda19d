package handler

import (
	"net/http"
	"testing"

	"github.com/andamio/obralog/internal/obra/entity"
	"github.com/andamio/obralog/internal/obra/repository"
	"github.com/andamio/obralog/internal/obra/service"
	"github.com/andamio/obralog/internal/obra/testutil"
	"go.uber.org/zap"
)

func setupProjectTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	h := NewProjectHandler(service.NewProjectService(repos.Project, zap.NewNop()))

	api := testutil.AuthGroup(router, "/api/v1")
	api.POST("/projects", h.Create)
	api.GET("/projects", h.List)
	api.GET("/projects/:id", h.Get)
	api.PUT("/projects/:id", h.Update)
	api.DELETE("/projects/:id", h.Delete)
	api.POST("/projects/:id/rubros", h.AddRubro)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestProjectCreateAndGet(t *testing.T) {
	env := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/projects", map[string]interface{}{
		"name":            "Mercado Municipal",
		"contract_number": "LICO-2025-014",
		"contractor":      "Constructora Andes",
		"location":        "Barrio Central",
		"start_date":      "2025-02-10",
		"status":          entity.ProjectStatusInProgress,
		"team":            []string{"Ing. Pérez", "Arq. Salas"},
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	projectID := data["id"].(string)

	w = testutil.DoRequest(env.Router, "GET", "/api/v1/projects/"+projectID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	data = resp["data"].(map[string]interface{})
	if data["name"] != "Mercado Municipal" {
		t.Errorf("name = %v", data["name"])
	}
	if data["contract_number"] != "LICO-2025-014" {
		t.Errorf("contract_number = %v", data["contract_number"])
	}
}

func TestProjectCreateRequiresName(t *testing.T) {
	env := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/projects", map[string]interface{}{
		"contractor": "Sin Nombre SA",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProjectCreateRejectsBadDate(t *testing.T) {
	env := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/projects", map[string]interface{}{
		"name":       "Obra Fecha Mala",
		"start_date": "10/02/2025",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProjectRequiresAuth(t *testing.T) {
	env := setupProjectTest(t)

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/projects", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
}

func TestProjectGetNotFound(t *testing.T) {
	env := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/projects/no-existe", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAddRubro(t *testing.T) {
	env := setupProjectTest(t)
	token := testutil.DefaultTestToken()
	project := testutil.SeedTestProject(t, env.DB, "proj-h-001", "Escuela Rural")

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/projects/"+project.ID+"/rubros",
		map[string]interface{}{
			"rubro_number": "1.1",
			"name":         "Replanteo y nivelación",
			"unit":         "m2",
			"quantity":     "350.5",
			"unit_price":   "1.8",
		}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["unit"] != "M2" {
		t.Errorf("unit = %v, want M2", data["unit"])
	}
}
