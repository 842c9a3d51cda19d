package repository

import (
	"context"
	"fmt"

	"github.com/andamio/obralog/internal/obra/entity"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// GetByID carga el proyecto con sus rubros (por posición) y registros diarios.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	var project entity.Project
	err := r.db.WithContext(ctx).
		Preload("Rubros", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		Preload("DailyLogs", func(db *gorm.DB) *gorm.DB {
			return db.Order("date DESC, created_at DESC")
		}).
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &project, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]entity.Project, error) {
	var projects []entity.Project
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	if err := r.db.WithContext(ctx).Save(project).Error; err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&entity.Project{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) CreateRubro(ctx context.Context, rubro *entity.Rubro) error {
	if err := r.db.WithContext(ctx).Create(rubro).Error; err != nil {
		return fmt.Errorf("create rubro: %w", err)
	}
	return nil
}

// CreateRubros inserta en lote preservando el orden de llegada.
func (r *ProjectRepository) CreateRubros(ctx context.Context, rubros []entity.Rubro) error {
	if len(rubros) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&rubros).Error; err != nil {
		return fmt.Errorf("create rubros: %w", err)
	}
	return nil
}

func (r *ProjectRepository) GetRubro(ctx context.Context, id string) (*entity.Rubro, error) {
	var rubro entity.Rubro
	if err := r.db.WithContext(ctx).First(&rubro, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &rubro, nil
}

func (r *ProjectRepository) ListRubros(ctx context.Context, projectID string) ([]entity.Rubro, error) {
	var rubros []entity.Rubro
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC, created_at ASC").
		Find(&rubros).Error
	if err != nil {
		return nil, fmt.Errorf("list rubros: %w", err)
	}
	return rubros, nil
}

// MaxRubroPosition posición máxima actual, -1 si el proyecto no tiene rubros
func (r *ProjectRepository) MaxRubroPosition(ctx context.Context, projectID string) (int, error) {
	var maxPos *int
	err := r.db.WithContext(ctx).
		Model(&entity.Rubro{}).
		Where("project_id = ?", projectID).
		Select("MAX(position)").
		Scan(&maxPos).Error
	if err != nil {
		return 0, fmt.Errorf("max rubro position: %w", err)
	}
	if maxPos == nil {
		return -1, nil
	}
	return *maxPos, nil
}

func (r *ProjectRepository) UpdateRubro(ctx context.Context, rubro *entity.Rubro) error {
	if err := r.db.WithContext(ctx).Save(rubro).Error; err != nil {
		return fmt.Errorf("update rubro: %w", err)
	}
	return nil
}

func (r *ProjectRepository) DeleteRubro(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&entity.Rubro{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete rubro: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
