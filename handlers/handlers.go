package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"cloudvault/logging"
	"cloudvault/manager"
	"cloudvault/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	Files          *manager.Files
	Albums         *manager.Albums
	Store          *store.Store
	Log            *zap.Logger
	MaxUploadBytes int64
	MinPassword    int
}

func New(m *manager.Manager, st *store.Store, log *zap.Logger, maxUploadBytes int64, minPassword int) *Handlers {
	return &Handlers{
		Files:          m.Files,
		Albums:         m.Albums,
		Store:          st,
		Log:            logging.OrNop(log).Named("http"),
		MaxUploadBytes: maxUploadBytes,
		MinPassword:    minPassword,
	}
}

// limitBody caps the request body before multipart parsing starts
func (h *Handlers) limitBody(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}
}

// formFile opens the multipart field and writes the error response itself
func (h *Handlers) formFile(c *gin.Context, field string) (name string, file multipart.File, ok bool) {
	h.limitBody(c)
	header, err := c.FormFile(field)
	if err != nil {
		if isTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, TooLargeResponse)
			return
		}
		c.JSON(http.StatusBadRequest, Response{"no file in field " + field})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, BadRequestResponse)
		return
	}
	return header.Filename, f, true
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}
