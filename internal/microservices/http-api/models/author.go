package models

import "time"

type Author struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"not null;index"`
	Bio       *string   `json:"bio,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	// gorm builds the books and quotes foreign keys from these has-many
	// tags, not from the belongs-to side
	Books  []Book  `json:"books,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Quotes []Quote `json:"quotes,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
}

func (Author) TableName() string {
	return "authors"
}

type AuthorFollow struct {
	UserID    string    `gorm:"primaryKey;type:uuid" json:"user_id"`
	AuthorID  int64     `gorm:"primaryKey;autoIncrement:false;index" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`

	Author *Author `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (AuthorFollow) TableName() string {
	return "author_follows"
}
