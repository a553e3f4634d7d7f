package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/splitbridge/backend/internal/expense"
	"github.com/splitbridge/backend/internal/httputil"
	"github.com/splitbridge/backend/internal/models"
	"github.com/splitbridge/backend/internal/submission"
)

// RegisterEntryRoutes registers the route for submitting an expense to
// the target service.
func (co Controller) RegisterEntryRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsPost)
	r.POST("", co.CreateEntry)
}

// EntryCreate is the request body for a submission.
type EntryCreate struct {
	Expense    expense.Expense `json:"expense"`
	CategoryID string          `json:"categoryId"`
	TagIDs     []string        `json:"tagIds"`

	// DuplicateDetected echoes the transferred flag the UI displayed,
	// DuplicateConfirmed is the user's decision to proceed anyway.
	DuplicateDetected  bool `json:"duplicateDetected"`
	DuplicateConfirmed bool `json:"duplicateConfirmed"`
}

// EntryCreateResponse reports the outcome of a submission.
type EntryCreateResponse struct {
	Outcome string  `json:"outcome" example:"created"`
	Error   *string `json:"error,omitempty"`
}

// CreateEntry submits one expense as an entry on the target service.
// Submissions without a chosen category are rejected before any network
// call, and only one submission may be in flight at a time.
func (co Controller) CreateEntry(c *gin.Context) {
	var body EntryCreate
	if err := httputil.BindData(c, &body); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	selected, err := models.GetPreference(models.PreferenceSelectedTag)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	// A stale selected tag must never end up on a created entry.
	selectedID := ""
	if tag := co.Sessions.SelectedTag(selected); tag != nil {
		selectedID = tag.ID
	}

	client, err := co.Toshl()
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	outcome, err := co.Submitter.Submit(c.Request.Context(), client, submission.Request{
		Expense:            body.Expense,
		CategoryID:         body.CategoryID,
		TagIDs:             body.TagIDs,
		SelectedTagID:      selectedID,
		DuplicateDetected:  body.DuplicateDetected,
		DuplicateConfirmed: body.DuplicateConfirmed,
	})

	response := EntryCreateResponse{Outcome: outcome.String()}

	switch outcome {
	case submission.Created:
		// A new entry exists on the target side, the cached corpus is
		// out of date.
		co.Corpus.Invalidate()
		c.JSON(http.StatusCreated, response)

	case submission.Rejected:
		e := err.Error()
		response.Error = &e
		c.JSON(status(err), response)

	default:
		e := err.Error()
		response.Error = &e
		c.JSON(http.StatusBadGateway, response)
	}
}
