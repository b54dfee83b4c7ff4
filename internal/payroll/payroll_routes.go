package payroll

import (
	"github.com/gistshu/chr/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client) {
	payrolls := r.Group("/payrolls")
	{
		payrolls.GET("", h.GetByMonth)
		payrolls.GET("/export", h.ExportRegister)
		payrolls.GET("/history/:employeeId", h.History)
		payrolls.GET("/:id", h.GetByID)
		if rdb != nil {
			payrolls.POST("/generate", middleware.Idempotency(rdb), h.Generate)
		} else {
			payrolls.POST("/generate", h.Generate)
		}
		payrolls.POST("/recalculate", h.Recalculate)
		payrolls.PATCH("/:id/field", h.UpdateField)
		payrolls.POST("/:id/lock", h.Lock)
		payrolls.POST("/:id/payslip", h.RequestPayslip)
		payrolls.GET("/:id/payslip", h.DownloadPayslip)
	}
}
