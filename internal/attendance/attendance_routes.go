package attendance

import (
	"github.com/gistshu/chr/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client) {
	attendances := r.Group("/attendances")
	{
		attendances.GET("", h.GetByDate)
		attendances.GET("/overview", h.DailyOverview)
		attendances.GET("/weekly-summary", h.WeeklySummary)
		attendances.POST("/clock", h.Clock)
		if rdb != nil {
			attendances.POST("/verify", middleware.Idempotency(rdb), h.Verify)
		} else {
			attendances.POST("/verify", h.Verify)
		}
		attendances.PATCH("/:id/time", h.UpdateClockTime)
		attendances.PATCH("/:id/note", h.UpdateNote)
	}
}
