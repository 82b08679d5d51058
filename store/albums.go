package store

import (
	"cloudvault/apperr"
	"cloudvault/models"

	"gorm.io/gorm"
)

func (s *Store) CreateAlbum(a *models.Album) error {
	a.PhotoCount = 0
	a.CoverPhoto = nil
	return s.db.Create(a).Error
}

// AlbumForOwner reports NotFound for both a missing album and a foreign one
func (s *Store) AlbumForOwner(owner, id uint64) (a models.Album, err error) {
	err = s.db.Where("id = ? AND user_id = ?", id, owner).First(&a).Error
	return a, notFound(err, "album")
}

func lockAlbum(tx *gorm.DB, owner, id uint64) (a models.Album, err error) {
	err = tx.Clauses(forUpdate).Where("id = ? AND user_id = ?", id, owner).First(&a).Error
	return a, notFound(err, "album")
}

// UpdateAlbum sets title and description of owner's album
func (s *Store) UpdateAlbum(owner, id uint64, title string, description *string) (a models.Album, err error) {
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if a, err = lockAlbum(tx, owner, id); err != nil {
			return err
		}
		// MySQL reports zero affected rows for an unchanged row, so the lock
		// above is the existence check and the update is guarded by owner too
		err = tx.Model(&models.Album{}).
			Where("id = ? AND user_id = ?", id, owner).
			Updates(map[string]any{"title": title, "description": description}).Error
		if err != nil {
			return err
		}
		a.Title = title
		a.Description = description
		return nil
	})
	return
}

// ListAlbums returns owner's albums, newest first
func (s *Store) ListAlbums(owner uint64) (albums []models.Album, err error) {
	err = s.db.Where("user_id = ?", owner).Order("created_at DESC, id DESC").Find(&albums).Error
	return
}

// DeleteAlbum removes the album and all its photo rows in one transaction.
// The foreign key cascades as well; the explicit delete keeps it independent
// of the engine enforcing constraints.
func (s *Store) DeleteAlbum(owner, id uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := lockAlbum(tx, owner, id); err != nil {
			return err
		}
		if err := tx.Where("album_id = ?", id).Delete(&models.Photo{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ? AND user_id = ?", id, owner).Delete(&models.Album{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.Errorf(apperr.ErrNotFound, "album")
		}
		return nil
	})
}
