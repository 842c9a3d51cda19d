package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de proyecto
const (
	ProjectStatusPlanned    = "planned"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusOnHold     = "on_hold"
	ProjectStatusCompleted  = "completed"
)

var projectStatusLabels = map[string]string{
	ProjectStatusPlanned:    "Planificado",
	ProjectStatusInProgress: "En curso",
	ProjectStatusOnHold:     "En pausa",
	ProjectStatusCompleted:  "Finalizado",
}

// ProjectStatusLabel devuelve la etiqueta en español de un estado de proyecto.
func ProjectStatusLabel(status string) string {
	if label, ok := projectStatusLabels[status]; ok {
		return label
	}
	return "No definido"
}

// UnitTypes catálogo de unidades de medida para rubros (extensible)
var UnitTypes = []string{
	"m", "m2", "m3", "kg", "ton", "u", "glb", "pza",
	"ml", "km", "ha", "dia", "sem", "mes", "hr", "otros",
}

// StringList lista de strings almacenada como JSONB
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan StringList: %v", value)
	}
	return json.Unmarshal(bytes, l)
}

// Project proyecto de obra (raíz del agregado)
type Project struct {
	ID                 string     `json:"id" gorm:"primaryKey;size:32"`
	Name               string     `json:"name" gorm:"size:256;not null"`
	ContractNumber     string     `json:"contract_number" gorm:"size:64"`
	Contractor         string     `json:"contractor" gorm:"size:256"`
	Location           string     `json:"location" gorm:"size:256"`
	Province           string     `json:"province" gorm:"size:128"`
	StartDate          *time.Time `json:"start_date" gorm:"type:date"`
	EndDateContractual *time.Time `json:"end_date_contractual" gorm:"type:date"`
	EndDateActual      *time.Time `json:"end_date_actual" gorm:"type:date"`
	Status             string     `json:"status" gorm:"size:16;not null;default:planned"`
	Team               StringList `json:"team" gorm:"type:jsonb"`
	CreatedBy          string     `json:"created_by" gorm:"size:32;not null"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	DeletedAt          *time.Time `json:"deleted_at" gorm:"index"`

	// Relaciones
	Rubros    []Rubro    `json:"rubros,omitempty" gorm:"foreignKey:ProjectID"`
	DailyLogs []DailyLog `json:"daily_logs,omitempty" gorm:"foreignKey:ProjectID"`
}

func (Project) TableName() string {
	return "projects"
}

// Rubro ítem contractual de obra: cantidad, precio unitario y monto derivado
type Rubro struct {
	ID          string          `json:"id" gorm:"primaryKey;size:32"`
	ProjectID   string          `json:"project_id" gorm:"size:32;not null;index"`
	RubroNumber string          `json:"rubro_number" gorm:"size:32"`
	Name        string          `json:"name" gorm:"size:256;not null"`
	Unit        string          `json:"unit" gorm:"size:16;not null"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:decimal(20,4);default:0"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(20,4);default:0"`
	Position    int             `json:"position" gorm:"not null;default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Rubro) TableName() string {
	return "rubros"
}

// ContractAmount monto contractual = cantidad × precio unitario
func (r *Rubro) ContractAmount() decimal.Decimal {
	return r.Quantity.Mul(r.UnitPrice)
}
