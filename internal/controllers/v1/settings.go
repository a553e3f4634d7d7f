package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/splitbridge/backend/internal/httputil"
	"github.com/splitbridge/backend/internal/models"
	"github.com/splitbridge/backend/internal/session"
)

// RegisterSettingsRoutes registers the routes for API keys and the
// default tag preference.
func (co Controller) RegisterSettingsRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/keys", httputil.OptionsGetPut)
	r.GET("/keys", co.GetKeys)
	r.PUT("/keys", co.UpdateKeys)

	r.OPTIONS("/tag", httputil.OptionsGetPut)
	r.GET("/tag", co.GetSelectedTag)
	r.PUT("/tag", co.UpdateSelectedTag)
}

// Keys is the request body for storing the API keys.
type Keys struct {
	Splitwise string `json:"splitwise"`
	Toshl     string `json:"toshl"`
}

// MaskedKeys only reveals the last characters of each stored key.
type MaskedKeys struct {
	Splitwise string `json:"splitwise" example:"*************NzBcjswGNbq"`
	Toshl     string `json:"toshl"`
}

// mask hides everything but the last 10 characters of a key.
func mask(key string) string {
	if key == "" {
		return ""
	}

	if len(key) > 10 {
		key = key[len(key)-10:]
	}

	return "*************" + key
}

// GetKeys returns the stored API keys in masked form. The full keys
// never leave the backend.
func (co Controller) GetKeys(c *gin.Context) {
	splitwiseKey, err := models.CredentialKey(models.ProviderSplitwise)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	toshlKey, err := models.CredentialKey(models.ProviderToshl)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MaskedKeys{
		Splitwise: mask(splitwiseKey),
		Toshl:     mask(toshlKey),
	})
}

// UpdateKeys stores both API keys. Changing credentials invalidates the
// session and the duplicate corpus, the next load re-evaluates both.
func (co Controller) UpdateKeys(c *gin.Context) {
	var keys Keys
	if err := httputil.BindData(c, &keys); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	if keys.Splitwise == "" || keys.Toshl == "" {
		c.JSON(http.StatusBadRequest, httpError{Error: errKeysIncomplete.Error()})
		return
	}

	if err := models.SetCredential(models.ProviderSplitwise, keys.Splitwise); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	if err := models.SetCredential(models.ProviderToshl, keys.Toshl); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	co.Sessions.Invalidate()
	co.Corpus.Invalidate()

	c.Status(http.StatusNoContent)
}

// SelectedTagResponse is the stored default tag, resolved against the
// fetched tags. A stale id resolves to a nil tag.
type SelectedTagResponse struct {
	ID  string       `json:"id"`
	Tag *session.Tag `json:"tag,omitempty"`
}

// GetSelectedTag returns the default tag preference.
func (co Controller) GetSelectedTag(c *gin.Context) {
	id, err := models.GetPreference(models.PreferenceSelectedTag)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SelectedTagResponse{
		ID:  id,
		Tag: co.Sessions.SelectedTag(id),
	})
}

// UpdateSelectedTag stores the default tag preference. The tag must
// exist in the fetched tag list.
func (co Controller) UpdateSelectedTag(c *gin.Context) {
	var body SelectedTagResponse
	if err := httputil.BindData(c, &body); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	tag := co.Sessions.SelectedTag(body.ID)
	if tag == nil {
		c.JSON(http.StatusBadRequest, httpError{Error: errUnknownTag.Error()})
		return
	}

	if err := models.SetPreference(models.PreferenceSelectedTag, body.ID); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	// The corpus is filtered by the selected tag, a new tag needs a
	// fresh corpus.
	co.Corpus.Invalidate()

	c.JSON(http.StatusOK, SelectedTagResponse{ID: body.ID, Tag: tag})
}
