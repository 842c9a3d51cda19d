package service

import (
	"errors"

	"github.com/andamio/obralog/internal/obra/repository"
	"go.uber.org/zap"
)

var (
	// ErrNoExportData no hay proyecto o registros suficientes para exportar
	ErrNoExportData = errors.New("no data to export")
	// ErrDuplicateRubroUpdate un registro diario no puede reportar dos veces el mismo rubro
	ErrDuplicateRubroUpdate = errors.New("duplicate rubro update in daily log")
	// ErrInvalidCredentials usuario o contraseña incorrectos
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Services struct {
	Project  *ProjectService
	DailyLog *DailyLogService
	Report   *ReportService
	PDF      *PDFService
	Auth     *AuthService
}

func NewServices(repos *repository.Repositories, report *ReportService, pdf *PDFService, auth *AuthService, logger *zap.Logger) *Services {
	return &Services{
		Project:  NewProjectService(repos.Project, logger),
		DailyLog: NewDailyLogService(repos.DailyLog, repos.Project, logger),
		Report:   report,
		PDF:      pdf,
		Auth:     auth,
	}
}
