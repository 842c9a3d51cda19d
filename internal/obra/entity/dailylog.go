package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Condiciones climáticas
var WeatherConditions = []string{"Soleado", "Nublado", "Lluvioso", "Ventoso"}

// Estados del trabajo realizado
var WorkPerformedConditions = []string{"Normal", "Interrumpido", "Suspendido"}

// Photo evidencia fotográfica adjunta a un avance de rubro.
// URL puede estar vacía para fotos aún no subidas al almacenamiento
// de objetos; el exportador las trata como referencia no durable.
type Photo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Comment string `json:"comment"`
}

// RubroUpdate avance diario de un rubro dentro de un registro.
// RubroID es una referencia débil: el rubro puede haber sido eliminado.
// QuantityExecutedToday se guarda como string tal cual fue ingresada;
// el agregador la parsea con tolerancia (no numérico = 0).
type RubroUpdate struct {
	RubroID               string  `json:"rubro_id"`
	QuantityExecutedToday string  `json:"quantity_executed_today"`
	Comment               string  `json:"comment"`
	Photos                []Photo `json:"photos"`
}

// RubroUpdateList lista de avances almacenada como JSONB
type RubroUpdateList []RubroUpdate

func (l RubroUpdateList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *RubroUpdateList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan RubroUpdateList: %v", value)
	}
	return json.Unmarshal(bytes, l)
}

// DailyLog registro diario de obra
type DailyLog struct {
	ID            string          `json:"id" gorm:"primaryKey;size:32"`
	ProjectID     string          `json:"project_id" gorm:"size:32;not null;index"`
	Date          time.Time       `json:"date" gorm:"type:date;not null"`
	Observations  string          `json:"observations" gorm:"type:text"`
	Personnel     string          `json:"personnel" gorm:"type:text"`
	Machinery     string          `json:"machinery" gorm:"type:text"`
	Weather       string          `json:"weather" gorm:"size:32"`
	WorkPerformed string          `json:"work_performed" gorm:"size:32"`
	RubroUpdates  RubroUpdateList `json:"rubro_updates" gorm:"type:jsonb"`
	CreatedBy     string          `json:"created_by" gorm:"size:32;not null"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (DailyLog) TableName() string {
	return "daily_logs"
}
