package models

import "time"

// ReviewComment is a reply to a review. New comments wait for moderation and
// only approved ones are shown to other readers.
type ReviewComment struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	RatingID   int64     `json:"rating_id" gorm:"not null;index"`
	UserID     string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	IsApproved bool      `json:"is_approved" gorm:"not null;default:false;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Rating *Rating `json:"-" gorm:"foreignKey:RatingID;constraint:OnDelete:CASCADE;"`
}

func (ReviewComment) TableName() string {
	return "review_comments"
}
