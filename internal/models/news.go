package models

import "time"

// News is a post published by a colonist. Private news is only visible to its owner.
type News struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	Content   string    `json:"content" gorm:"type:text"`
	IsPrivate bool      `json:"is_private" gorm:"not null;default:false;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the News model.
func (News) TableName() string {
	return "news"
}

// NewsPatch is the full set of fields an owner may overwrite on a news item.
type NewsPatch struct {
	Title     string
	Content   string
	IsPrivate bool
}
