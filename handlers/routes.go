package handlers

import (
	"cloudvault/auth"

	"github.com/gin-gonic/gin"
)

// Routes registers every endpoint on base. Session middleware must already be installed.
func (h *Handlers) Routes(base gin.IRoutes) {
	authRouter := &auth.Router{Base: base, Store: h.Store}
	// User handlers
	base.POST("/user/register", h.UserRegister)
	base.POST("/user/login", h.UserLogin)
	authRouter.POST("/user/logout", h.UserLogout)
	authRouter.GET("/user/status", h.UserStatus)
	// File handlers
	authRouter.GET("/file/list", h.FileList)
	authRouter.POST("/file/upload", h.FileUpload)
	authRouter.GET("/file/download", h.FileDownload)
	authRouter.POST("/file/delete", h.FileDelete)
	// Album handlers
	authRouter.GET("/album/list", h.AlbumList)
	authRouter.POST("/album/create", h.AlbumCreate)
	authRouter.GET("/album/view", h.AlbumView)
	authRouter.POST("/album/save", h.AlbumSave)
	authRouter.POST("/album/add_photo", h.AlbumAddPhoto)
	authRouter.POST("/album/set_cover", h.AlbumSetCover)
	authRouter.POST("/album/delete", h.AlbumDelete)
	// Photo handlers
	authRouter.POST("/photo/delete", h.PhotoDelete)
	authRouter.GET("/photo/fetch", h.PhotoFetch)
}
