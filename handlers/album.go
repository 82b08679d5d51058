package handlers

import (
	"net/http"

	"cloudvault/models"
	"cloudvault/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type AlbumCreateRequest struct {
	Title string `form:"title" binding:"required"`
}

type AlbumIDRequest struct {
	AlbumID uint64 `form:"album_id" binding:"required"`
}

type AlbumSaveRequest struct {
	AlbumID uint64 `form:"album_id" binding:"required"`
	Title   string `form:"title" binding:"required"`
}

type AlbumCoverRequest struct {
	AlbumID uint64 `form:"album_id" binding:"required"`
	PhotoID uint64 `form:"photo_id" binding:"required"`
}

type AlbumViewRequest struct {
	ID uint64 `form:"id" binding:"required"`
}

type AlbumInfo struct {
	models.Album
	Subtitle string `json:"subtitle"`
}

// description is optional; a missing field and an empty one both clear it
func description(c *gin.Context) *string {
	if d, ok := c.GetPostForm("description"); ok {
		return &d
	}
	return nil
}

func (h *Handlers) AlbumList(c *gin.Context, user *models.User) {
	albums, err := h.Albums.List(user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, albums)
}

func (h *Handlers) AlbumCreate(c *gin.Context, user *models.User) {
	r := AlbumCreateRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	album, err := h.Albums.Create(user.ID, r.Title, description(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, album)
}

// AlbumView returns the album, its photos (newest first) and the span of their upload dates
func (h *Handlers) AlbumView(c *gin.Context, user *models.User) {
	r := AlbumViewRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	album, photos, err := h.Albums.View(user.ID, r.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	var minDate, maxDate int64
	if len(photos) > 0 {
		maxDate = photos[0].CreatedAt
		minDate = photos[len(photos)-1].CreatedAt
	}
	c.JSON(http.StatusOK, gin.H{
		"album":  AlbumInfo{Album: album, Subtitle: utils.GetDatesString(minDate, maxDate)},
		"photos": photos,
	})
}

func (h *Handlers) AlbumSave(c *gin.Context, user *models.User) {
	r := AlbumSaveRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	album, err := h.Albums.Rename(user.ID, r.AlbumID, r.Title, description(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, album)
}

func (h *Handlers) AlbumAddPhoto(c *gin.Context, user *models.User) {
	name, content, ok := h.formFile(c, "photo")
	if !ok {
		return
	}
	defer content.Close()
	r := AlbumIDRequest{}
	if err := c.ShouldBindWith(&r, binding.FormMultipart); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	photo, err := h.Albums.AddPhoto(user.ID, r.AlbumID, name, content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, photo)
}

func (h *Handlers) AlbumSetCover(c *gin.Context, user *models.User) {
	r := AlbumCoverRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if err := h.Albums.SetCover(user.ID, r.AlbumID, r.PhotoID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func (h *Handlers) AlbumDelete(c *gin.Context, user *models.User) {
	r := AlbumIDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if err := h.Albums.DeleteAlbum(user.ID, r.AlbumID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
