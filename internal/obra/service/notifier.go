package service

// Severidades de notificación
const (
	SeverityInfo        = "info"
	SeveritySuccess     = "success"
	SeverityWarning     = "warning"
	SeverityDestructive = "destructive"
)

// Notification aviso de estado dirigido al usuario final
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// Notifier colaborador de reporte de estado/errores. Los servicios de
// exportación lo invocan al inicio de operaciones largas, al terminar,
// y cuando la entrada está vacía; nunca propagan fallos más allá de él.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapta una función a Notifier
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// NopNotifier descarta todas las notificaciones
var NopNotifier = NotifierFunc(func(Notification) {})
