package handler

import (
	"errors"
	"time"

	"github.com/andamio/obralog/internal/obra/entity"
	"github.com/andamio/obralog/internal/obra/service"
	"github.com/gin-gonic/gin"
)

type DailyLogHandler struct {
	svc *service.DailyLogService
}

func NewDailyLogHandler(svc *service.DailyLogService) *DailyLogHandler {
	return &DailyLogHandler{svc: svc}
}

type dailyLogRequest struct {
	Date          string                 `json:"date" binding:"required"`
	Observations  string                 `json:"observations"`
	Personnel     string                 `json:"personnel"`
	Machinery     string                 `json:"machinery"`
	Weather       string                 `json:"weather"`
	WorkPerformed string                 `json:"work_performed"`
	RubroUpdates  entity.RubroUpdateList `json:"rubro_updates"`
}

func (r *dailyLogRequest) toEntity() (*entity.DailyLog, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return nil, err
	}
	return &entity.DailyLog{
		Date:          date,
		Observations:  r.Observations,
		Personnel:     r.Personnel,
		Machinery:     r.Machinery,
		Weather:       r.Weather,
		WorkPerformed: r.WorkPerformed,
		RubroUpdates:  r.RubroUpdates,
	}, nil
}

// Create POST /api/v1/projects/:id/logs
func (h *DailyLogHandler) Create(c *gin.Context) {
	var req dailyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "datos de registro inválidos: "+err.Error())
		return
	}
	log, err := req.toEntity()
	if err != nil {
		BadRequest(c, "fecha inválida, formato esperado AAAA-MM-DD")
		return
	}
	log.ProjectID = c.Param("id")
	log.CreatedBy = GetUserID(c)

	if err := h.svc.Create(c.Request.Context(), log); err != nil {
		if errors.Is(err, service.ErrDuplicateRubroUpdate) {
			BadRequest(c, "un registro diario no puede reportar el mismo rubro dos veces")
			return
		}
		respondRepoError(c, err, "proyecto no encontrado")
		return
	}
	Created(c, log)
}

// List GET /api/v1/projects/:id/logs
func (h *DailyLogHandler) List(c *gin.Context) {
	logs, err := h.svc.ListByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		InternalError(c, "error al listar registros: "+err.Error())
		return
	}
	Success(c, gin.H{"items": logs})
}

// Get GET /api/v1/logs/:id
func (h *DailyLogHandler) Get(c *gin.Context) {
	log, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondRepoError(c, err, "registro no encontrado")
		return
	}
	Success(c, log)
}

// Update PUT /api/v1/logs/:id
func (h *DailyLogHandler) Update(c *gin.Context) {
	var req dailyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "datos de registro inválidos: "+err.Error())
		return
	}
	log, err := req.toEntity()
	if err != nil {
		BadRequest(c, "fecha inválida, formato esperado AAAA-MM-DD")
		return
	}
	log.ID = c.Param("id")

	if err := h.svc.Update(c.Request.Context(), log); err != nil {
		if errors.Is(err, service.ErrDuplicateRubroUpdate) {
			BadRequest(c, "un registro diario no puede reportar el mismo rubro dos veces")
			return
		}
		respondRepoError(c, err, "registro no encontrado")
		return
	}
	Success(c, log)
}

// Delete DELETE /api/v1/logs/:id
func (h *DailyLogHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondRepoError(c, err, "registro no encontrado")
		return
	}
	Success(c, nil)
}
