package service

import (
	"context"
	"fmt"

	"github.com/andamio/obralog/internal/obra/entity"
	"github.com/andamio/obralog/internal/obra/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DailyLogService struct {
	logs     *repository.DailyLogRepository
	projects *repository.ProjectRepository
	logger   *zap.Logger
}

func NewDailyLogService(logs *repository.DailyLogRepository, projects *repository.ProjectRepository, logger *zap.Logger) *DailyLogService {
	return &DailyLogService{logs: logs, projects: projects, logger: logger}
}

func (s *DailyLogService) Create(ctx context.Context, log *entity.DailyLog) error {
	if _, err := s.projects.GetByID(ctx, log.ProjectID); err != nil {
		return err
	}
	if err := validateRubroUpdates(log.RubroUpdates); err != nil {
		return err
	}
	log.ID = uuid.New().String()[:32]
	if err := s.logs.Create(ctx, log); err != nil {
		return err
	}
	s.logger.Info("daily log created",
		zap.String("log_id", log.ID),
		zap.String("project_id", log.ProjectID),
		zap.Time("date", log.Date))
	return nil
}

func (s *DailyLogService) Get(ctx context.Context, id string) (*entity.DailyLog, error) {
	return s.logs.GetByID(ctx, id)
}

func (s *DailyLogService) ListByProject(ctx context.Context, projectID string) ([]entity.DailyLog, error) {
	return s.logs.ListByProject(ctx, projectID)
}

func (s *DailyLogService) Update(ctx context.Context, log *entity.DailyLog) error {
	current, err := s.logs.GetByID(ctx, log.ID)
	if err != nil {
		return err
	}
	if err := validateRubroUpdates(log.RubroUpdates); err != nil {
		return err
	}
	log.ProjectID = current.ProjectID
	log.CreatedBy = current.CreatedBy
	return s.logs.Update(ctx, log)
}

func (s *DailyLogService) Delete(ctx context.Context, id string) error {
	return s.logs.Delete(ctx, id)
}

// validateRubroUpdates un registro diario reporta cada rubro a lo sumo una vez
func validateRubroUpdates(updates entity.RubroUpdateList) error {
	seen := make(map[string]bool, len(updates))
	for _, u := range updates {
		if u.RubroID == "" {
			return fmt.Errorf("rubro update without rubro id")
		}
		if seen[u.RubroID] {
			return fmt.Errorf("%w: rubro %s", ErrDuplicateRubroUpdate, u.RubroID)
		}
		seen[u.RubroID] = true
	}
	return nil
}
