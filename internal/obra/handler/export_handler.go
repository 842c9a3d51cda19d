package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/andamio/obralog/internal/obra/entity"
	"github.com/andamio/obralog/internal/obra/service"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler descarga de reportes generados del proyecto
type ExportHandler struct {
	projects *service.ProjectService
	report   *service.ReportService
	pdf      *service.PDFService
}

func NewExportHandler(projects *service.ProjectService, report *service.ReportService, pdf *service.PDFService) *ExportHandler {
	return &ExportHandler{projects: projects, report: report, pdf: pdf}
}

// ExcelReport GET /api/v1/projects/:id/export/excel
func (h *ExportHandler) ExcelReport(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	collector := &notificationCollector{}
	workbook, filename, err := h.report.BuildExcelReport(project, collector)
	if err != nil {
		respondExportError(c, err, collector)
		return
	}

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		InternalError(c, "error al serializar el reporte: "+err.Error())
		return
	}

	writeAttachment(c, filename, xlsxContentType, buf.Bytes())
}

// WorkLogPDF GET /api/v1/projects/:id/export/libro-obra
func (h *ExportHandler) WorkLogPDF(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	collector := &notificationCollector{}
	data, filename, err := h.pdf.BuildWorkLogPDF(c.Request.Context(), project, collector)
	if err != nil {
		respondExportError(c, err, collector)
		return
	}

	writeAttachment(c, filename, "application/pdf", data)
}

// PhotoAnnexPDF GET /api/v1/projects/:id/export/anexo-fotografico
func (h *ExportHandler) PhotoAnnexPDF(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	collector := &notificationCollector{}
	data, filename, err := h.pdf.BuildPhotoAnnexPDF(c.Request.Context(), project, collector)
	if err != nil {
		respondExportError(c, err, collector)
		return
	}

	writeAttachment(c, filename, "application/pdf", data)
}

func (h *ExportHandler) loadProject(c *gin.Context) (*entity.Project, bool) {
	project, err := h.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondRepoError(c, err, "proyecto no encontrado")
		return nil, false
	}
	return project, true
}

func respondExportError(c *gin.Context, err error, collector *notificationCollector) {
	if errors.Is(err, service.ErrNoExportData) {
		c.JSON(http.StatusBadRequest, Response{
			Code:    40010,
			Message: "no hay datos para exportar",
			Data:    gin.H{"notifications": collector.notifications},
		})
		return
	}
	InternalError(c, "error al generar el documento: "+err.Error())
}

func writeAttachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
