package store

import (
	"cloudvault/apperr"
	"cloudvault/models"

	"gorm.io/gorm"
)

// AddPhoto inserts p into owner's album and bumps the album counter. The
// first photo of an empty album becomes its cover. p.AlbumID and p.UserID
// are set from the locked album row.
func (s *Store) AddPhoto(owner, albumID uint64, p *models.Photo) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		album, err := lockAlbum(tx, owner, albumID)
		if err != nil {
			return err
		}
		p.AlbumID = album.ID
		p.UserID = album.UserID
		if err = tx.Create(p).Error; err != nil {
			return err
		}
		// cover_photo is assigned before photo_count: MySQL evaluates SET
		// left to right, so the CASE must see the old counter
		return tx.Exec(
			"UPDATE albums SET "+
				"cover_photo = CASE WHEN photo_count = 0 THEN ? ELSE cover_photo END, "+
				"photo_count = photo_count + 1 "+
				"WHERE id = ?",
			p.StorageName, album.ID,
		).Error
	})
}

// PhotoForOwner reports NotFound for a missing photo and for a foreign one
func (s *Store) PhotoForOwner(owner, id uint64) (p models.Photo, err error) {
	err = s.db.Where("id = ? AND user_id = ?", id, owner).First(&p).Error
	return p, notFound(err, "photo")
}

// SetCover makes photoID the cover of owner's album albumID
func (s *Store) SetCover(owner, albumID, photoID uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := lockAlbum(tx, owner, albumID); err != nil {
			return err
		}
		var p models.Photo
		err := tx.Where("id = ? AND album_id = ?", photoID, albumID).First(&p).Error
		if err != nil {
			return notFound(err, "photo")
		}
		return tx.Model(&models.Album{}).Where("id = ?", albumID).Update("cover_photo", p.StorageName).Error
	})
}

// DeletePhoto removes owner's photo and returns the deleted row.
// The counter drops by one and, when the photo was the cover, the oldest
// remaining photo takes its place (NULL when none is left).
func (s *Store) DeletePhoto(owner, id uint64) (p models.Photo, err error) {
	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND user_id = ?", id, owner).First(&p).Error
		if err != nil {
			return notFound(err, "photo")
		}
		if _, err = lockAlbum(tx, owner, p.AlbumID); err != nil {
			return err
		}
		result := tx.Delete(&models.Photo{}, p.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.Errorf(apperr.ErrNotFound, "photo")
		}
		return tx.Exec(
			"UPDATE albums SET "+
				"cover_photo = CASE WHEN cover_photo = ? THEN "+
				"(SELECT storage_name FROM photos WHERE album_id = ? ORDER BY created_at ASC, id ASC LIMIT 1) "+
				"ELSE cover_photo END, "+
				"photo_count = CASE WHEN photo_count > 0 THEN photo_count - 1 ELSE 0 END "+
				"WHERE id = ?",
			p.StorageName, p.AlbumID, p.AlbumID,
		).Error
	})
	return
}

// ListPhotos returns the album's photos, newest first
func (s *Store) ListPhotos(albumID uint64) (photos []models.Photo, err error) {
	err = s.db.Where("album_id = ?", albumID).Order("created_at DESC, id DESC").Find(&photos).Error
	return
}

func (s *Store) CountPhotos(albumID uint64) (count int64, err error) {
	err = s.db.Model(&models.Photo{}).Where("album_id = ?", albumID).Count(&count).Error
	return
}
