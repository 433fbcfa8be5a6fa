package handler

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	playground "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/admin-console/pkg/errors"
	"github.com/jwalitptl/admin-console/pkg/validator"
)

// ContextDoctorID is where the auth middleware leaves the caller's id.
const ContextDoctorID = "doctor_id"

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError writes err as an error body. AppErrors keep their status and
// message; anything else is a 500 with a generic message.
func RespondError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && appErr.Status != 0 {
		if appErr.Status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		}
		c.AbortWithStatusJSON(appErr.Status, NewErrorResponse(appErr.Message))
		return
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
	c.AbortWithStatusJSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
}

// RespondBindError reports the first invalid field of a request body.
func RespondBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, NewErrorResponse(BindMessage(err)))
}

func BindMessage(err error) string {
	var verrs playground.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}

	first := verrs[0]
	label := validator.Label(first.Field())
	tmpl, ok := validator.DefaultMessages()[first.Tag()]
	if !ok {
		return label + " is invalid"
	}
	switch strings.Count(tmpl, "%s") {
	case 0:
		return tmpl
	case 1:
		return fmt.Sprintf(tmpl, label)
	default:
		return fmt.Sprintf(tmpl, label, first.Param())
	}
}

// DoctorID returns the authenticated caller.
func DoctorID(c *gin.Context) string {
	return c.GetString(ContextDoctorID)
}
