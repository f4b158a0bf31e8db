package response

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	HTTPStatusCode int    `json:"-"`
	StatusText     string `json:"status"`
	ErrorText      string `json:"error,omitempty"`

	cause error
}

func (e *Err) Error() string {
	return e.ErrorText
}

// RenderErr writes e as JSON and aborts the chain. Server errors are logged with their cause.
func RenderErr(ctx *gin.Context, e *Err) {
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("path", ctx.FullPath()),
			zap.Error(e.cause),
		)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func newErr(status int, err error) *Err {
	e := &Err{
		HTTPStatusCode: status,
		StatusText:     http.StatusText(status),
		cause:          err,
	}
	if err != nil {
		e.ErrorText = err.Error()
	}

	return e
}

func ErrBadRequest(err error) *Err {
	return newErr(http.StatusBadRequest, err)
}

func ErrUnauthorized(err error) *Err {
	return newErr(http.StatusUnauthorized, err)
}

func ErrPermissionDenied(err error) *Err {
	return newErr(http.StatusForbidden, err)
}

func ErrNotFound(resource, field string, value any) *Err {
	return newErr(http.StatusNotFound, fmt.Errorf("%s with %s %v not found", resource, field, value))
}

func ErrConflict(err error) *Err {
	return newErr(http.StatusConflict, err)
}

func ErrUnprocessableEntity(err error) *Err {
	return newErr(http.StatusUnprocessableEntity, err)
}

func ErrPaymentRequired(err error) *Err {
	return newErr(http.StatusPaymentRequired, err)
}

// ErrInternalServerError hides err from the client.
func ErrInternalServerError(err error) *Err {
	e := newErr(http.StatusInternalServerError, err)
	e.ErrorText = "internal server error"

	return e
}

// ErrResourceNotFound reports a missing resource using err as the message.
func ErrResourceNotFound(err error) *Err {
	return newErr(http.StatusNotFound, err)
}
