package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sponsorship-backend/internal/config"
	handler "sponsorship-backend/internal/handlers"
	"sponsorship-backend/internal/middleware"
	"sponsorship-backend/internal/repository"
	"sponsorship-backend/internal/services/payimport"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, log *slog.Logger, cfg *config.Config) {
	importRepo := repository.NewImportRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	refRepo := repository.NewReferenceRepository(db)

	importService := payimport.NewService(log, importRepo, ledgerRepo, refRepo, cfg.Import)
	importHandler := handler.NewImportHandler(importService, cfg.Import.MaxUploadMB)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Import batch routes
	imports := api.Group("/imports", middleware.RequireAdmin())
	imports.POST("/upload", importHandler.Upload)
	imports.GET("/:batchId", importHandler.GetBatch)
	imports.GET("/:batchId/rows", importHandler.ListRows)
	imports.POST("/:batchId/match", importHandler.RunMatching)
	imports.POST("/:batchId/approve", importHandler.Approve)
	imports.POST("/:batchId/reject", importHandler.Reject)
	imports.DELETE("/:batchId", importHandler.CancelBatch)

	// Row-level routes
	rows := api.Group("/import-rows", middleware.RequireAdmin())
	rows.PATCH("/:id", importHandler.EditRow)
	rows.POST("/:id/split", importHandler.SplitRow)
}
