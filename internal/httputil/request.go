package httputil

import (
	"errors"
	"io"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	ErrRequestBodyEmpty   = errors.New("the request body must not be empty")
	ErrRequestBodyInvalid = errors.New("the body of your request contains invalid or un-parseable data")
)

// BindData binds the JSON request body to the struct passed in.
func BindData(c *gin.Context, data any) error {
	if err := c.ShouldBindJSON(data); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrRequestBodyEmpty
		}

		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		return ErrRequestBodyInvalid
	}

	return nil
}
