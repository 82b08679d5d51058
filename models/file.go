package models

type File struct {
	ID     uint64 `gorm:"primaryKey" json:"id"`
	UserID uint64 `gorm:"not null;index:user_file_created,priority:1" json:"owner_id"`
	User   *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	// StorageName is the blob name in the flat files directory
	StorageName  string `gorm:"type:varchar(400);not null;index:uniq_storage_name,unique" json:"storage_name"`
	OriginalName string `gorm:"type:varchar(300);not null" json:"original_name"`
	FileType     string `gorm:"type:varchar(20);not null" json:"file_type"` // lower-case extension
	Size         int64  `gorm:"not null" json:"file_size"`
	CreatedAt    int64  `gorm:"index:user_file_created,priority:2" json:"created_at"`
}

func (f *File) GetPath() string {
	return f.StorageName
}
