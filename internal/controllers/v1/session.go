package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/splitbridge/backend/internal/httputil"
	"github.com/splitbridge/backend/internal/models"
	"github.com/splitbridge/backend/internal/session"
)

// RegisterSessionRoutes registers the routes for the account session.
func (co Controller) RegisterSessionRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", co.GetSession)
	r.OPTIONS("/load", httputil.OptionsPost)
	r.POST("/load", co.LoadSession)
}

// SessionStatus is the externally visible session state.
type SessionStatus struct {
	State       string                  `json:"state" example:"set"`
	Splitwise   *session.SourceIdentity `json:"splitwise,omitempty"`
	Toshl       *session.TargetIdentity `json:"toshl,omitempty"`
	Categories  int                     `json:"categories"`
	Tags        int                     `json:"tags"`
	SelectedTag *session.Tag            `json:"selectedTag,omitempty"`
}

func (co Controller) sessionStatus() (SessionStatus, error) {
	status := SessionStatus{
		State:      co.Sessions.State().String(),
		Categories: len(co.Sessions.Categories()),
		Tags:       len(co.Sessions.Tags()),
	}

	if co.Sessions.State() == session.Set {
		source := co.Sessions.Source()
		target := co.Sessions.Target()
		status.Splitwise = &source
		status.Toshl = &target
	}

	selected, err := models.GetPreference(models.PreferenceSelectedTag)
	if err != nil {
		return SessionStatus{}, err
	}
	status.SelectedTag = co.Sessions.SelectedTag(selected)

	return status, nil
}

// GetSession returns the current session state without issuing any
// remote calls.
func (co Controller) GetSession(c *gin.Context) {
	s, err := co.sessionStatus()
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, s)
}

// LoadSession authenticates against both services and fetches the
// reference data. A missing credential yields 412 without any remote
// call, an upstream failure yields 502 and the session becomes invalid.
func (co Controller) LoadSession(c *gin.Context) {
	if co.Sessions.LoadAccounts(c.Request.Context()) {
		s, err := co.sessionStatus()
		if err != nil {
			c.JSON(status(err), httpError{Error: err.Error()})
			return
		}

		c.JSON(http.StatusOK, s)
		return
	}

	if co.Sessions.State() == session.Invalid {
		c.JSON(status(session.ErrUpstreamInvalid), httpError{Error: session.ErrUpstreamInvalid.Error()})
		return
	}

	c.JSON(status(session.ErrMissingCredentials), httpError{Error: session.ErrMissingCredentials.Error()})
}
