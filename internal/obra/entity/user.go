package entity

import (
	"time"
)

// Roles de usuario
const (
	RoleAdmin        = "admin"
	RoleFiscalizador = "fiscalizador"
	RoleResidente    = "residente"
	RoleLectura      = "lectura"
)

// User usuario local (autenticación usuario/contraseña)
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	Username     string     `json:"username" gorm:"size:64;not null;uniqueIndex"`
	Name         string     `json:"name" gorm:"size:128;not null"`
	Email        string     `json:"email" gorm:"size:128"`
	PasswordHash string     `json:"-" gorm:"size:128;not null"`
	Role         string     `json:"role" gorm:"size:32;not null;default:lectura"`
	Status       string     `json:"status" gorm:"size:16;not null;default:active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// CanWrite indica si el rol permite crear/editar proyectos y registros
func (u *User) CanWrite() bool {
	return u.Role == RoleAdmin || u.Role == RoleFiscalizador || u.Role == RoleResidente
}
