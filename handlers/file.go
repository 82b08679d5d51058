package handlers

import (
	"mime"
	"net/http"

	"cloudvault/models"
	"cloudvault/naming"
	"cloudvault/utils"

	"github.com/gin-gonic/gin"
)

type FileIDRequest struct {
	ID uint64 `form:"id" binding:"required"`
}

type FileInfo struct {
	models.File
	SizeHuman string `json:"size_human"`
	IsImage   bool   `json:"is_image"`
}

func fileInfo(f models.File) FileInfo {
	return FileInfo{File: f, SizeHuman: utils.HumanSize(f.Size), IsImage: naming.IsImage(f.FileType)}
}

// FileList returns the owner's files, newest first, and the dashboard counters
func (h *Handlers) FileList(c *gin.Context, user *models.User) {
	files, err := h.Files.List(user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	stats, err := h.Files.Stats(user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	result := make([]FileInfo, 0, len(files))
	for _, f := range files {
		result = append(result, fileInfo(f))
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "files": result, "stats": stats})
}

func (h *Handlers) FileUpload(c *gin.Context, user *models.User) {
	name, content, ok := h.formFile(c, "file")
	if !ok {
		return
	}
	defer content.Close()
	f, err := h.Files.Upload(user.ID, name, content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "file": fileInfo(f)})
}

func (h *Handlers) FileDownload(c *gin.Context, user *models.User) {
	r := FileIDRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	f, content, err := h.Files.Download(user.ID, r.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer content.Close()
	contentType := mime.TypeByExtension("." + f.FileType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	utils.SetCacheControl(c, utils.CacheDownload)
	c.DataFromReader(http.StatusOK, f.Size, contentType, content, map[string]string{
		"content-disposition": "attachment; filename=\"" + f.OriginalName + "\"",
	})
}

func (h *Handlers) FileDelete(c *gin.Context, user *models.User) {
	r := FileIDRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if err := h.Files.Delete(user.ID, r.ID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
