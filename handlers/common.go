package handlers

import (
	"errors"
	"net/http"

	"cloudvault/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Response struct {
	Error string `json:"error"`
}

var (
	// Predefined responses
	OKResponse           = Response{}
	BadRequestResponse   = Response{"bad request"}
	TooLargeResponse     = Response{"file is too large"}
	NotFoundResponse     = Response{"not found"}
	ForbiddenResponse    = Response{"access denied"}
	InternalResponse     = Response{"internal error"}
	StorageErrorResponse = Response{"storage error"}
)

var kindMessages = map[error]string{
	apperr.ErrValidation:          "",
	apperr.ErrInvalidName:         "invalid file name",
	apperr.ErrMissingExtension:    "file has no extension",
	apperr.ErrDisallowedExtension: "file type not allowed",
}

// statusFor maps an error kind to the HTTP status reported to clients
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.ErrValidation, apperr.ErrInvalidName, apperr.ErrMissingExtension, apperr.ErrDisallowedExtension:
		return http.StatusBadRequest
	case apperr.ErrNotFound:
		return http.StatusNotFound
	case apperr.ErrForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func (h *Handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusBadRequest:
		msg := kindMessages[apperr.KindOf(err)]
		if msg == "" {
			msg = err.Error()
		}
		c.JSON(status, Response{msg})
	case http.StatusNotFound:
		c.JSON(status, NotFoundResponse)
	case http.StatusForbidden:
		c.JSON(status, ForbiddenResponse)
	default:
		h.Log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		if errors.Is(err, apperr.ErrIOFailure) {
			c.JSON(status, StorageErrorResponse)
			return
		}
		c.JSON(status, InternalResponse)
	}
}
