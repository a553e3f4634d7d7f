// Package v1 implements the JSON API consumed by the UI layer.
package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/splitbridge/backend/internal/duplicate"
	"github.com/splitbridge/backend/internal/session"
	"github.com/splitbridge/backend/internal/splitwise"
	"github.com/splitbridge/backend/internal/submission"
	"github.com/splitbridge/backend/internal/toshl"
)

// Controller carries the long-lived state of the API. Clients are
// constructed per request since the stored API keys can change at any
// time through the settings endpoints.
type Controller struct {
	Sessions  *session.Store
	Submitter *submission.Submitter
	Corpus    *duplicate.Corpus

	// Splitwise and Toshl return clients configured with the stored API
	// key, or session.ErrMissingCredentials when no key is stored.
	Splitwise func() (*splitwise.Client, error)
	Toshl     func() (*toshl.Client, error)
}

// RegisterRoutes attaches all v1 routes to the router group passed in.
func (co Controller) RegisterRoutes(r *gin.RouterGroup) {
	co.RegisterSessionRoutes(r.Group("/session"))
	co.RegisterSettingsRoutes(r.Group("/settings"))
	co.RegisterCategoryRoutes(r.Group("/categories"))
	co.RegisterTagRoutes(r.Group("/tags"))
	co.RegisterFriendRoutes(r.Group("/friends"))
	co.RegisterEntryRoutes(r.Group("/entries"))
}
