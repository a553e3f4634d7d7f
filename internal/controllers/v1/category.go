package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/splitbridge/backend/internal/httputil"
)

// RegisterCategoryRoutes registers the routes for the category list.
func (co Controller) RegisterCategoryRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", co.GetCategories)
}

// GetCategories returns the expense categories, most used first.
func (co Controller) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, co.Sessions.Categories())
}
