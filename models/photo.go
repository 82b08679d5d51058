package models

import "strconv"

type Photo struct {
	ID           uint64  `gorm:"primaryKey" json:"id"`
	AlbumID      uint64  `gorm:"not null;index:uniq_album_storage,unique,priority:1;index:album_photo_created,priority:1" json:"album_id"`
	Album        *Album  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID       uint64  `gorm:"not null;index" json:"owner_id"`
	User         *User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	StorageName  string  `gorm:"type:varchar(300);not null;index:uniq_album_storage,unique,priority:2" json:"storage_name"`
	OriginalName string  `gorm:"type:varchar(300);not null" json:"original_name"`
	Description  *string `gorm:"type:text" json:"description"`
	CreatedAt    int64   `gorm:"index:album_photo_created,priority:2" json:"created_at"`
}

// GetPath returns the path of the photo relative to the albums root, e.g. 12/1f3a9c0d2b4e6f70.jpg
func (p *Photo) GetPath() string {
	return AlbumDir(p.AlbumID) + "/" + p.StorageName
}

func AlbumDir(albumID uint64) string {
	return strconv.FormatUint(albumID, 10)
}
