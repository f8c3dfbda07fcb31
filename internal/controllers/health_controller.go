package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB *gorm.DB
}

// Health is the liveness probe. Reaching it means startup finished,
// including the database wait.
func (hc *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready pings the database on every call.
func (hc *HealthController) Ready(c *gin.Context) {
	sqlDB, err := hc.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "unavailable",
			"components": gin.H{"database": "down"},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"components": gin.H{"database": "up"},
	})
}
