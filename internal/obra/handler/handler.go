package handler

import (
	"github.com/andamio/obralog/internal/config"
	"github.com/andamio/obralog/internal/obra/service"
	"github.com/gin-gonic/gin"
)

// Handlers colección de manejadores HTTP
type Handlers struct {
	Auth     *AuthHandler
	Project  *ProjectHandler
	DailyLog *DailyLogHandler
	Export   *ExportHandler
	Upload   *UploadHandler
}

func NewHandlers(svc *service.Services, cfg *config.Config, upload *UploadHandler) *Handlers {
	return &Handlers{
		Auth:     NewAuthHandler(svc.Auth),
		Project:  NewProjectHandler(svc.Project),
		DailyLog: NewDailyLogHandler(svc.DailyLog),
		Export:   NewExportHandler(svc.Project, svc.Report, svc.PDF),
		Upload:   upload,
	}
}

// Response estructura común de respuesta
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success respuesta exitosa
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created recurso creado
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error respuesta de error; el código HTTP se deriva del código interno
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest parámetros inválidos
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// Unauthorized sin autenticación
func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

// NotFound recurso inexistente
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// InternalError error del servidor
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// GetUserID identificador del usuario autenticado
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// notificationCollector acumula los avisos emitidos durante una operación
// para devolverlos en la respuesta
type notificationCollector struct {
	notifications []service.Notification
}

func (n *notificationCollector) Notify(notification service.Notification) {
	n.notifications = append(n.notifications, notification)
}
