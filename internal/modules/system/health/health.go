package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quicky-ai/quicky-core/internal/database"
	"github.com/quicky-ai/quicky-core/internal/pkg/cron"
	"github.com/quicky-ai/quicky-core/internal/pkg/response"
)

// RegisterRoutes mounts the liveness probe and, behind authMW, the
// maintenance job endpoints.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, sched *cron.Scheduler, authMW gin.HandlerFunc) {
	rg.GET("/health", func(c *gin.Context) {
		dbStatus := "connected"
		if err := database.Ping(c.Request.Context(), db); err != nil {
			_ = c.Error(err)
			dbStatus = "unavailable"
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
			"database":  dbStatus,
		})
	})

	cronGroup := rg.Group("/health/cron", authMW)
	cronGroup.GET("", func(c *gin.Context) {
		items := sched.List()
		byName := make(map[string]cron.ListItem, len(items))
		for _, item := range items {
			byName[item.Name] = item
		}
		response.OK(c, byName)
	})
	cronGroup.POST("/run/:name", func(c *gin.Context) {
		if err := sched.Run(c.Request.Context(), c.Param("name")); err != nil {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.OK(c, gin.H{"success": true})
	})
}
