package handler

import (
	"errors"
	"time"

	"github.com/andamio/obralog/internal/obra/entity"
	"github.com/andamio/obralog/internal/obra/repository"
	"github.com/andamio/obralog/internal/obra/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type ProjectHandler struct {
	svc *service.ProjectService
}

func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

type projectRequest struct {
	Name               string   `json:"name" binding:"required"`
	ContractNumber     string   `json:"contract_number"`
	Contractor         string   `json:"contractor"`
	Location           string   `json:"location"`
	Province           string   `json:"province"`
	StartDate          string   `json:"start_date"`
	EndDateContractual string   `json:"end_date_contractual"`
	EndDateActual      string   `json:"end_date_actual"`
	Status             string   `json:"status"`
	Team               []string `json:"team"`
}

func (r *projectRequest) toEntity() (*entity.Project, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return nil, err
	}
	endContractual, err := parseDate(r.EndDateContractual)
	if err != nil {
		return nil, err
	}
	endActual, err := parseDate(r.EndDateActual)
	if err != nil {
		return nil, err
	}
	return &entity.Project{
		Name:               r.Name,
		ContractNumber:     r.ContractNumber,
		Contractor:         r.Contractor,
		Location:           r.Location,
		Province:           r.Province,
		StartDate:          start,
		EndDateContractual: endContractual,
		EndDateActual:      endActual,
		Status:             r.Status,
		Team:               r.Team,
	}, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create POST /api/v1/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "datos de proyecto inválidos: "+err.Error())
		return
	}
	project, err := req.toEntity()
	if err != nil {
		BadRequest(c, "fecha inválida, formato esperado AAAA-MM-DD")
		return
	}
	project.CreatedBy = GetUserID(c)

	if err := h.svc.Create(c.Request.Context(), project); err != nil {
		InternalError(c, "error al crear el proyecto: "+err.Error())
		return
	}
	Created(c, project)
}

// List GET /api/v1/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.svc.List(c.Request.Context())
	if err != nil {
		InternalError(c, "error al listar proyectos: "+err.Error())
		return
	}
	Success(c, gin.H{"items": projects})
}

// Get GET /api/v1/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondRepoError(c, err, "proyecto no encontrado")
		return
	}
	Success(c, project)
}

// Update PUT /api/v1/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "datos de proyecto inválidos: "+err.Error())
		return
	}
	project, err := req.toEntity()
	if err != nil {
		BadRequest(c, "fecha inválida, formato esperado AAAA-MM-DD")
		return
	}
	project.ID = c.Param("id")

	if err := h.svc.Update(c.Request.Context(), project); err != nil {
		respondRepoError(c, err, "proyecto no encontrado")
		return
	}
	Success(c, project)
}

// Delete DELETE /api/v1/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondRepoError(c, err, "proyecto no encontrado")
		return
	}
	Success(c, nil)
}

type rubroRequest struct {
	RubroNumber string          `json:"rubro_number"`
	Name        string          `json:"name" binding:"required"`
	Unit        string          `json:"unit" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// AddRubro POST /api/v1/projects/:id/rubros
func (h *ProjectHandler) AddRubro(c *gin.Context) {
	var req rubroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "datos de rubro inválidos: "+err.Error())
		return
	}
	rubro := &entity.Rubro{
		RubroNumber: req.RubroNumber,
		Name:        req.Name,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
	}
	if err := h.svc.AddRubro(c.Request.Context(), c.Param("id"), rubro); err != nil {
		respondRepoError(c, err, "proyecto no encontrado")
		return
	}
	Created(c, rubro)
}

// UpdateRubro PUT /api/v1/rubros/:id
func (h *ProjectHandler) UpdateRubro(c *gin.Context) {
	var req rubroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "datos de rubro inválidos: "+err.Error())
		return
	}
	rubro := &entity.Rubro{
		ID:          c.Param("id"),
		RubroNumber: req.RubroNumber,
		Name:        req.Name,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
	}
	if err := h.svc.UpdateRubro(c.Request.Context(), rubro); err != nil {
		respondRepoError(c, err, "rubro no encontrado")
		return
	}
	Success(c, rubro)
}

// DeleteRubro DELETE /api/v1/rubros/:id
func (h *ProjectHandler) DeleteRubro(c *gin.Context) {
	if err := h.svc.DeleteRubro(c.Request.Context(), c.Param("id")); err != nil {
		respondRepoError(c, err, "rubro no encontrado")
		return
	}
	Success(c, nil)
}

// ImportRubros POST /api/v1/projects/:id/rubros/import
// Carga masiva desde la primera hoja de un archivo xlsx.
func (h *ProjectHandler) ImportRubros(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "se requiere un archivo xlsx en el campo 'file'")
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		InternalError(c, "error al leer el archivo: "+err.Error())
		return
	}
	defer src.Close()

	workbook, err := excelize.OpenReader(src)
	if err != nil {
		BadRequest(c, "el archivo no es un libro xlsx válido")
		return
	}
	defer workbook.Close()

	collector := &notificationCollector{}
	result, err := h.svc.ImportRubros(c.Request.Context(), c.Param("id"), workbook, collector)
	if err != nil {
		respondRepoError(c, err, "proyecto no encontrado")
		return
	}

	Success(c, gin.H{
		"result":        result,
		"notifications": collector.notifications,
	})
}

func respondRepoError(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, repository.ErrNotFound) {
		NotFound(c, notFoundMsg)
		return
	}
	InternalError(c, err.Error())
}
