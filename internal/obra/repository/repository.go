package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound el registro solicitado no existe
var ErrNotFound = errors.New("record not found")

type Repositories struct {
	Project  *ProjectRepository
	DailyLog *DailyLogRepository
	User     *UserRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Project:  NewProjectRepository(db),
		DailyLog: NewDailyLogRepository(db),
		User:     NewUserRepository(db),
	}
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
