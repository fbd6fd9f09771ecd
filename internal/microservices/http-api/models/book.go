package models

import "time"

type Book struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string    `json:"title" gorm:"not null;index"`
	Subtitle      *string   `json:"subtitle,omitempty"`
	Description   string    `json:"description" gorm:"type:text;not null"`
	PublishedDate string    `json:"published_date" gorm:"not null"`
	NumberOfPages int       `json:"number_of_pages" gorm:"not null"`
	Image         string    `json:"image" gorm:"not null"`
	ISBN10        *string   `json:"isbn10,omitempty" gorm:"column:isbn10"`
	ISBN13        *string   `json:"isbn13,omitempty" gorm:"column:isbn13"`
	Rating        float64   `json:"rating" gorm:"not null;default:0"`
	RatingsCount  int64     `json:"ratings_count" gorm:"not null;default:0"`
	AuthorID      int64     `json:"author_id" gorm:"not null;index"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Author     *Author    `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Categories []Category `json:"categories,omitempty" gorm:"many2many:book_categories;constraint:OnDelete:CASCADE;"`
}

func (Book) TableName() string {
	return "books"
}

const (
	ShelfWantToRead = "want_to_read"
	ShelfReading    = "reading"
	ShelfRead       = "read"
)

// UserBook is a book on a user's personal shelf with its reading status.
type UserBook struct {
	UserID    string    `gorm:"primaryKey;type:uuid" json:"user_id"`
	BookID    int64     `gorm:"primaryKey;autoIncrement:false;index" json:"book_id"`
	Status    string    `gorm:"not null" json:"status"`
	UpdatedAt time.Time `json:"updated_at"`

	Book *Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;" json:"book,omitempty"`
}

func (UserBook) TableName() string {
	return "user_books"
}
