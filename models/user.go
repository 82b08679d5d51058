package models

type User struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt int64  `json:"created_at"`
	Username  string `gorm:"type:varchar(100);not null;index:uniq_username,unique" json:"username"`
	Email     string `gorm:"type:varchar(150);not null;index:uniq_email,unique" json:"email"`
	Password  string `gorm:"type:varchar(128);not null" json:"-"` // bcrypt hash
}
