package models

import (
	"time"

	"gorm.io/gorm"
)

// Ratings are stored on a single 1..10 scale.
const (
	MinRating = 1
	MaxRating = 10
)

// Rating is a review: a score with an optional free-text comment.
type Rating struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	BookID    int64     `json:"book_id" gorm:"not null;index"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 10"`
	Comment   *string   `json:"comment" gorm:"type:text"`
	Likes     int64     `json:"likes" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

func (Rating) TableName() string {
	return "ratings"
}

// RatingLike records that a user liked a rating. The composite key is the
// uniqueness guarantee the like toggle relies on.
type RatingLike struct {
	UserID    string    `gorm:"primaryKey;type:uuid" json:"user_id"`
	RatingID  int64     `gorm:"primaryKey;autoIncrement:false;index" json:"rating_id"`
	CreatedAt time.Time `json:"created_at"`

	Rating *Rating `gorm:"foreignKey:RatingID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (RatingLike) TableName() string {
	return "likes"
}

// The hooks below run inside the write's transaction, so the book's
// denormalized rating and ratings_count never drift from the ratings table.

func (r *Rating) AfterCreate(tx *gorm.DB) error {
	return RefreshBookStats(tx, r.BookID)
}

func (r *Rating) AfterUpdate(tx *gorm.DB) error {
	return RefreshBookStats(tx, r.BookID)
}

func (r *Rating) AfterDelete(tx *gorm.DB) error {
	if err := tx.Session(&gorm.Session{NewDB: true}).Where("rating_id = ?", r.ID).Delete(&RatingLike{}).Error; err != nil {
		return err
	}
	return RefreshBookStats(tx, r.BookID)
}

// RefreshBookStats recomputes books.rating and books.ratings_count from the ratings table.
func RefreshBookStats(tx *gorm.DB, bookID int64) error {
	if bookID == 0 {
		return nil
	}
	return tx.Session(&gorm.Session{NewDB: true, SkipHooks: true}).
		Model(&Book{}).
		Where("id = ?", bookID).
		UpdateColumns(map[string]any{
			"ratings_count": gorm.Expr("(SELECT COUNT(*) FROM ratings WHERE book_id = ?)", bookID),
			"rating":        gorm.Expr("(SELECT COALESCE(AVG(rating), 0) FROM ratings WHERE book_id = ?)", bookID),
		}).Error
}
