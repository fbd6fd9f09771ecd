package models

import "time"

type Quote struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	AuthorID  int64     `json:"author_id" gorm:"not null;index"`
	BookID    *int64    `json:"book_id,omitempty" gorm:"index"`
	Likes     int64     `json:"likes" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Author     *Author    `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Book       *Book      `json:"-" gorm:"foreignKey:BookID;constraint:OnDelete:SET NULL;"`
	Categories []Category `json:"categories,omitempty" gorm:"many2many:quote_categories;constraint:OnDelete:CASCADE;"`
}

func (Quote) TableName() string {
	return "quotes"
}

type QuoteLike struct {
	UserID    string    `gorm:"primaryKey;type:uuid" json:"user_id"`
	QuoteID   int64     `gorm:"primaryKey;autoIncrement:false;index" json:"quote_id"`
	CreatedAt time.Time `json:"created_at"`

	Quote *Quote `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (QuoteLike) TableName() string {
	return "user_quotes"
}
