package v1

import (
	"errors"
	"net/http"

	"github.com/splitbridge/backend/internal/httputil"
	"github.com/splitbridge/backend/internal/models"
	"github.com/splitbridge/backend/internal/session"
	"github.com/splitbridge/backend/internal/submission"
)

// httpError is the response object for all error responses.
type httpError struct {
	Error string `json:"error" example:"a category must be chosen before submitting"`
}

var (
	errAccountsNotLoaded = errors.New("accounts are not loaded, load the session first")
	errFriendIDInvalid   = errors.New("the friend id must be an integer")
	errUnknownTag        = errors.New("there is no tag with this id")
	errKeysIncomplete    = errors.New("both the splitwise and the toshl API key must be provided")
	errUpstreamFailed    = errors.New("the remote service could not be reached")
)

// status returns the HTTP status for an error.
func status(err error) int {
	switch {
	case errors.Is(err, session.ErrMissingCredentials),
		errors.Is(err, errAccountsNotLoaded):
		return http.StatusPreconditionFailed

	case errors.Is(err, session.ErrUpstreamInvalid),
		errors.Is(err, errUpstreamFailed):
		return http.StatusBadGateway

	case errors.Is(err, submission.ErrDuplicateUnconfirmed),
		errors.Is(err, submission.ErrInFlight):
		return http.StatusConflict

	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound

	case errors.Is(err, models.ErrGeneral):
		return http.StatusInternalServerError

	case errors.Is(err, httputil.ErrRequestBodyEmpty),
		errors.Is(err, httputil.ErrRequestBodyInvalid),
		errors.Is(err, submission.ErrNoCategory):
		return http.StatusBadRequest
	}

	return http.StatusBadRequest
}
