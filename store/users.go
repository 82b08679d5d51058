package store

import (
	"errors"

	"cloudvault/apperr"
	"cloudvault/models"

	"gorm.io/gorm"
)

// CreateUser inserts u. A taken username or email is a validation error.
func (s *Store) CreateUser(u *models.User) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var taken int64
		err := tx.Model(&models.User{}).
			Where("username = ? OR email = ?", u.Username, u.Email).
			Count(&taken).Error
		if err != nil {
			return err
		}
		if taken > 0 {
			return apperr.Errorf(apperr.ErrValidation, "username or email already registered")
		}
		return tx.Create(u).Error
	})
	// Two registrations racing past the count still meet the unique indexes
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Errorf(apperr.ErrValidation, "username or email already registered")
	}
	return err
}

func (s *Store) UserByUsername(username string) (u models.User, err error) {
	err = s.db.Where("username = ?", username).First(&u).Error
	return u, notFound(err, "user")
}

func (s *Store) UserByID(id uint64) (u models.User, err error) {
	err = s.db.First(&u, id).Error
	return u, notFound(err, "user")
}
