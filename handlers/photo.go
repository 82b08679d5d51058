package handlers

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"

	"cloudvault/models"
	"cloudvault/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

const maxThumbSize = 2048

type PhotoIDRequest struct {
	PhotoID uint64 `form:"photo_id" binding:"required"`
}

type PhotoFetchRequest struct {
	ID   uint64 `form:"id" binding:"required"`
	Size uint   `form:"size"` // longest side of the JPEG thumbnail, 0 for the original
}

func (h *Handlers) PhotoDelete(c *gin.Context, user *models.User) {
	r := PhotoIDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if err := h.Albums.DeletePhoto(user.ID, r.PhotoID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func (h *Handlers) PhotoFetch(c *gin.Context, user *models.User) {
	r := PhotoFetchRequest{}
	if err := c.ShouldBindQuery(&r); err != nil || r.Size > maxThumbSize {
		c.JSON(http.StatusBadRequest, BadRequestResponse)
		return
	}
	photo, content, err := h.Albums.OpenPhoto(user.ID, r.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer content.Close()
	utils.SetCacheControl(c, utils.CachePhoto)

	contentType := mime.TypeByExtension(path.Ext(photo.StorageName))
	if r.Size == 0 {
		c.DataFromReader(http.StatusOK, -1, contentType, content, nil)
		return
	}
	original, err := io.ReadAll(content)
	if err != nil {
		h.fail(c, err)
		return
	}
	var thumb bytes.Buffer
	if _, err = utils.CreateThumb(r.Size, bytes.NewReader(original), &thumb); err != nil {
		// Formats without a decoder (webp) are served as they are
		h.Log.Debug("thumbnail skipped", zap.Uint64("photo", photo.ID), zap.Error(err))
		c.Data(http.StatusOK, contentType, original)
		return
	}
	c.Header("content-length", strconv.Itoa(thumb.Len()))
	c.Data(http.StatusOK, "image/jpeg", thumb.Bytes())
}
