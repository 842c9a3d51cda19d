package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/andamio/obralog/internal/obra/entity"
	"github.com/andamio/obralog/internal/obra/repository"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ProjectService struct {
	projects *repository.ProjectRepository
	logger   *zap.Logger
}

func NewProjectService(projects *repository.ProjectRepository, logger *zap.Logger) *ProjectService {
	return &ProjectService{projects: projects, logger: logger}
}

func (s *ProjectService) Create(ctx context.Context, project *entity.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()[:32]
	}
	if project.Status == "" {
		project.Status = entity.ProjectStatusPlanned
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return err
	}
	s.logger.Info("project created", zap.String("project_id", project.ID), zap.String("name", project.Name))
	return nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*entity.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *ProjectService) List(ctx context.Context) ([]entity.Project, error) {
	return s.projects.List(ctx)
}

func (s *ProjectService) Update(ctx context.Context, project *entity.Project) error {
	if _, err := s.projects.GetByID(ctx, project.ID); err != nil {
		return err
	}
	return s.projects.Update(ctx, project)
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("project deleted", zap.String("project_id", id))
	return nil
}

func (s *ProjectService) AddRubro(ctx context.Context, projectID string, rubro *entity.Rubro) error {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return err
	}
	maxPos, err := s.projects.MaxRubroPosition(ctx, projectID)
	if err != nil {
		return err
	}
	rubro.ID = uuid.New().String()[:32]
	rubro.ProjectID = projectID
	rubro.Unit = strings.ToUpper(strings.TrimSpace(rubro.Unit))
	rubro.Position = maxPos + 1
	return s.projects.CreateRubro(ctx, rubro)
}

func (s *ProjectService) UpdateRubro(ctx context.Context, rubro *entity.Rubro) error {
	current, err := s.projects.GetRubro(ctx, rubro.ID)
	if err != nil {
		return err
	}
	rubro.ProjectID = current.ProjectID
	rubro.Position = current.Position
	rubro.Unit = strings.ToUpper(strings.TrimSpace(rubro.Unit))
	return s.projects.UpdateRubro(ctx, rubro)
}

func (s *ProjectService) DeleteRubro(ctx context.Context, id string) error {
	return s.projects.DeleteRubro(ctx, id)
}

// ImportResult resultado de una importación masiva de rubros
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportRubros lee la primera hoja del libro y agrega los rubros al final
// de la lista existente. La primera fila se descarta como cabecera. Columnas
// esperadas: número de rubro, descripción, unidad, cantidad, precio unitario.
// Las filas incompletas se omiten con aviso, nunca abortan la importación.
func (s *ProjectService) ImportRubros(ctx context.Context, projectID string, f *excelize.File, notifier Notifier) (*ImportResult, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) <= 1 {
		notifier.Notify(Notification{
			Title:       "Importación Vacía",
			Description: "El archivo no contiene filas de rubros.",
			Severity:    SeverityWarning,
		})
		return &ImportResult{}, nil
	}

	maxPos, err := s.projects.MaxRubroPosition(ctx, projectID)
	if err != nil {
		return nil, err
	}
	nextPos := maxPos + 1

	result := &ImportResult{}
	var rubros []entity.Rubro
	for i, row := range rows[1:] {
		rowNum := i + 2
		if len(row) < 5 {
			result.Skipped++
			notifier.Notify(Notification{
				Title:       "Fila Omitida",
				Description: fmt.Sprintf("Fila %d: se esperan 5 columnas (N° rubro, descripción, unidad, cantidad, precio unitario).", rowNum),
				Severity:    SeverityWarning,
			})
			continue
		}
		name := strings.TrimSpace(row[1])
		unit := strings.TrimSpace(row[2])
		if name == "" || unit == "" || strings.TrimSpace(row[3]) == "" || strings.TrimSpace(row[4]) == "" {
			result.Skipped++
			notifier.Notify(Notification{
				Title:       "Fila Omitida",
				Description: fmt.Sprintf("Fila %d: faltan datos esenciales (descripción, unidad, cantidad o precio unitario).", rowNum),
				Severity:    SeverityWarning,
			})
			continue
		}
		rubros = append(rubros, entity.Rubro{
			ID:          uuid.New().String()[:32],
			ProjectID:   projectID,
			RubroNumber: strings.TrimSpace(row[0]),
			Name:        name,
			Unit:        strings.ToUpper(unit),
			Quantity:    ParseQuantity(row[3]),
			UnitPrice:   ParseQuantity(row[4]),
			Position:    nextPos,
		})
		nextPos++
	}

	if err := s.projects.CreateRubros(ctx, rubros); err != nil {
		return nil, err
	}
	result.Imported = len(rubros)

	s.logger.Info("rubros imported",
		zap.String("project_id", projectID),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped))

	notifier.Notify(Notification{
		Title:       "Importación Completada",
		Description: fmt.Sprintf("%d rubros importados, %d filas omitidas.", result.Imported, result.Skipped),
		Severity:    SeveritySuccess,
	})
	return result, nil
}
