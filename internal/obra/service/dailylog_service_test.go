package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andamio/obralog/internal/obra/entity"
	"github.com/andamio/obralog/internal/obra/repository"
	"github.com/andamio/obralog/internal/obra/testutil"
	"go.uber.org/zap"
)

func setupDailyLogService(t *testing.T) (*DailyLogService, *entity.Project) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewDailyLogService(repos.DailyLog, repos.Project, zap.NewNop())

	project := testutil.SeedTestProject(t, db, "proj-dl-001", "Canal de Riego")
	testutil.SeedTestRubro(t, db, "rub-001", project.ID, "1.1", "Excavación", "100", "5", 0)
	return svc, project
}

func TestDailyLogCreateAndListDescending(t *testing.T) {
	svc, project := setupDailyLogService(t)
	ctx := context.Background()

	for _, d := range []string{"2025-04-01", "2025-04-03", "2025-04-02"} {
		day, _ := time.Parse("2006-01-02", d)
		log := &entity.DailyLog{
			ProjectID: project.ID,
			Date:      day,
			Weather:   "Soleado",
			RubroUpdates: entity.RubroUpdateList{
				{RubroID: "rub-001", QuantityExecutedToday: "5"},
			},
		}
		if err := svc.Create(ctx, log); err != nil {
			t.Fatalf("Create(%s): %v", d, err)
		}
	}

	logs, err := svc.ListByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("ListByProject: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("logs = %d, want 3", len(logs))
	}
	// Más recientes primero
	for i := 1; i < len(logs); i++ {
		if logs[i].Date.After(logs[i-1].Date) {
			t.Fatalf("logs not in descending date order")
		}
	}
}

func TestDailyLogRejectsDuplicateRubro(t *testing.T) {
	svc, project := setupDailyLogService(t)
	ctx := context.Background()

	day, _ := time.Parse("2006-01-02", "2025-04-01")
	log := &entity.DailyLog{
		ProjectID: project.ID,
		Date:      day,
		RubroUpdates: entity.RubroUpdateList{
			{RubroID: "rub-001", QuantityExecutedToday: "5"},
			{RubroID: "rub-001", QuantityExecutedToday: "3"},
		},
	}

	err := svc.Create(ctx, log)
	if !errors.Is(err, ErrDuplicateRubroUpdate) {
		t.Fatalf("err = %v, want ErrDuplicateRubroUpdate", err)
	}
}

func TestDailyLogCreateUnknownProject(t *testing.T) {
	svc, _ := setupDailyLogService(t)
	ctx := context.Background()

	day, _ := time.Parse("2006-01-02", "2025-04-01")
	err := svc.Create(ctx, &entity.DailyLog{ProjectID: "no-existe", Date: day})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDailyLogUpdatePreservesOwnership(t *testing.T) {
	svc, project := setupDailyLogService(t)
	ctx := context.Background()

	day, _ := time.Parse("2006-01-02", "2025-04-01")
	original := &entity.DailyLog{
		ProjectID: project.ID,
		Date:      day,
		CreatedBy: "user-001",
	}
	if err := svc.Create(ctx, original); err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated := &entity.DailyLog{
		ID:           original.ID,
		Date:         day,
		Observations: "Jornada normal",
		CreatedBy:    "intruso",
	}
	if err := svc.Update(ctx, updated); err != nil {
		t.Fatalf("Update: %v", err)
	}

	loaded, err := svc.Get(ctx, original.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loaded.CreatedBy != "user-001" {
		t.Errorf("CreatedBy = %q, want user-001", loaded.CreatedBy)
	}
	if loaded.Observations != "Jornada normal" {
		t.Errorf("Observations = %q", loaded.Observations)
	}
	if loaded.ProjectID != project.ID {
		t.Errorf("ProjectID = %q, want %q", loaded.ProjectID, project.ID)
	}
}
