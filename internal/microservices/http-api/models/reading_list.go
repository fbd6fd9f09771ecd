package models

import "time"

type ReadingList struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	IsPublic    bool      `json:"is_public" gorm:"not null;default:false"`
	IsFeatured  bool      `json:"is_featured" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Books []Book `json:"books,omitempty" gorm:"many2many:reading_list_books;constraint:OnDelete:CASCADE;"`
}

func (ReadingList) TableName() string {
	return "reading_lists"
}
