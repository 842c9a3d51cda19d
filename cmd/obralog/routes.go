package main

import (
	"net/http"

	"github.com/andamio/obralog/internal/config"
	"github.com/andamio/obralog/internal/middleware"
	"github.com/andamio/obralog/internal/obra/entity"
	"github.com/andamio/obralog/internal/obra/handler"
	"github.com/gin-gonic/gin"
)

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
	}

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		protected.GET("/auth/me", h.Auth.Me)
		protected.POST("/users", middleware.RequireRole(entity.RoleAdmin), h.Auth.Register)

		protected.GET("/projects", h.Project.List)
		protected.GET("/projects/:id", h.Project.Get)
		protected.GET("/projects/:id/logs", h.DailyLog.List)
		protected.GET("/logs/:id", h.DailyLog.Get)

		// Exportaciones: lectura basta
		protected.GET("/projects/:id/export/excel", h.Export.ExcelReport)
		protected.GET("/projects/:id/export/libro-obra", h.Export.WorkLogPDF)
		protected.GET("/projects/:id/export/anexo-fotografico", h.Export.PhotoAnnexPDF)

		writer := protected.Group("")
		writer.Use(middleware.RequireWriter())
		{
			writer.POST("/projects", h.Project.Create)
			writer.PUT("/projects/:id", h.Project.Update)
			writer.DELETE("/projects/:id", h.Project.Delete)

			writer.POST("/projects/:id/rubros", h.Project.AddRubro)
			writer.POST("/projects/:id/rubros/import", h.Project.ImportRubros)
			writer.PUT("/rubros/:id", h.Project.UpdateRubro)
			writer.DELETE("/rubros/:id", h.Project.DeleteRubro)

			writer.POST("/projects/:id/logs", h.DailyLog.Create)
			writer.PUT("/logs/:id", h.DailyLog.Update)
			writer.DELETE("/logs/:id", h.DailyLog.Delete)

			writer.POST("/uploads", h.Upload.Upload)
		}
	}
}
