// Package healthz implements the liveness endpoint.
package healthz

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/splitbridge/backend/internal/models"
)

// RegisterRoutes registers the healthz routes.
func RegisterRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", Options)
	r.GET("", Get)
}

// Options returns the allowed HTTP verbs.
func Options(c *gin.Context) {
	c.Header("allow", "OPTIONS, GET")
	c.Status(http.StatusNoContent)
}

// Get returns 204 if the backend is healthy, i.e. the settings store
// is reachable.
func Get(c *gin.Context) {
	sqlDB, err := models.DB.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
