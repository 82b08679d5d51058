package models

type Album struct {
	ID          uint64  `gorm:"primaryKey" json:"id"`
	UserID      uint64  `gorm:"not null;index:user_album_created,priority:1" json:"owner_id"`
	User        *User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Title       string  `gorm:"type:varchar(300);not null" json:"title"`
	Description *string `gorm:"type:text" json:"description"`
	// CoverPhoto holds the storage name of one of the album's photos, or NULL
	CoverPhoto *string `gorm:"type:varchar(300)" json:"cover_photo"`
	PhotoCount int     `gorm:"not null;default:0" json:"photo_count"`
	CreatedAt  int64   `gorm:"index:user_album_created,priority:2" json:"created_at"`
}

// Dir is the album's directory relative to the albums root
func (a *Album) Dir() string {
	return AlbumDir(a.ID)
}
