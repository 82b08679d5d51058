package auth

import (
	"cloudvault/models"
	"cloudvault/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const userIdKey = "id"

type Session struct {
	sessions.Session
}

func LoadSession(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
	}
}

func (s *Session) LoginUser(id uint64) error {
	s.Set(userIdKey, id)
	return s.Save()
}

func (s *Session) LogoutUser() error {
	s.Delete(userIdKey)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}

// UserID is the id stored at login, 0 when nobody is logged in
func (s *Session) UserID() uint64 {
	id, _ := s.Get(userIdKey).(uint64)
	return id
}

// User loads the logged in user; user.ID is 0 when the session is anonymous
// or points to a user that no longer exists
func (s *Session) User(st *store.Store) (user models.User) {
	id := s.UserID()
	if id == 0 {
		return
	}
	user, err := st.UserByID(id)
	if err != nil {
		return models.User{}
	}
	return
}
