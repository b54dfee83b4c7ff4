package shift

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	shifts := r.Group("/shifts")
	{
		shifts.GET("", h.GetSchedule)
		shifts.GET("/types", h.GetTypes)
		shifts.POST("", h.Assign)
		shifts.DELETE("/:employeeId/:date", h.Remove)
	}
}
