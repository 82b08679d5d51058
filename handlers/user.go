package handlers

import (
	"errors"
	"net/http"
	"strings"

	"cloudvault/apperr"
	"cloudvault/auth"
	"cloudvault/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserCreateRequest struct {
	Username        string `form:"username" binding:"required"`
	Email           string `form:"email" binding:"required"`
	Password        string `form:"password" binding:"required"`
	ConfirmPassword string `form:"confirm_password" binding:"required"`
}

type UserLoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type UserInfo struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func userInfo(u *models.User) UserInfo {
	return UserInfo{ID: u.ID, Username: u.Username, Email: u.Email}
}

func (h *Handlers) UserRegister(c *gin.Context) {
	r := UserCreateRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	if r.Username == "" || !strings.Contains(r.Email, "@") {
		c.JSON(http.StatusBadRequest, Response{"username and a valid email are required"})
		return
	}
	if len(r.Password) < h.MinPassword {
		c.JSON(http.StatusBadRequest, Response{"password is too short"})
		return
	}
	if r.Password != r.ConfirmPassword {
		c.JSON(http.StatusBadRequest, Response{"passwords do not match"})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
	if err != nil {
		h.fail(c, err)
		return
	}
	user := models.User{Username: r.Username, Email: r.Email, Password: string(hash)}
	if err = h.Store.CreateUser(&user); err != nil {
		h.fail(c, err)
		return
	}
	h.Log.Info("user registered", zap.Uint64("user", user.ID))
	c.JSON(http.StatusOK, gin.H{"error": "", "user": userInfo(&user)})
}

func (h *Handlers) UserLogin(c *gin.Context) {
	r := UserLoginRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	user, err := h.Store.UserByUsername(strings.TrimSpace(r.Username))
	if err == nil {
		err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(r.Password))
	}
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusUnauthorized, Response{"wrong username or password"})
		return
	}
	if err = auth.LoadSession(c).LoginUser(user.ID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "user": userInfo(&user)})
}

func (h *Handlers) UserLogout(c *gin.Context, user *models.User) {
	if err := auth.LoadSession(c).LogoutUser(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func (h *Handlers) UserStatus(c *gin.Context, user *models.User) {
	c.JSON(http.StatusOK, gin.H{"error": "", "user": userInfo(user)})
}
