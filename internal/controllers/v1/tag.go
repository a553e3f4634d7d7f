package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/splitbridge/backend/internal/httputil"
	"github.com/splitbridge/backend/internal/ranking"
)

// RegisterTagRoutes registers the routes for ranked tag lists.
func (co Controller) RegisterTagRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", co.GetTags)
}

// GetTags returns all tags ranked for manual selection. With a category
// query parameter, tags of that category come first.
func (co Controller) GetTags(c *gin.Context) {
	c.JSON(http.StatusOK, ranking.Rank(co.Sessions.Tags(), c.Query("category")))
}
