package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             string     `gorm:"primaryKey;type:uuid" json:"id"`
	Name           string     `gorm:"not null" json:"name"`
	Username       string     `gorm:"uniqueIndex;not null" json:"username"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	Password       string     `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	Role           string     `gorm:"default:'user';not null" json:"role"`
	ProfilePicture *string    `json:"profile_picture,omitempty"`
	Bio            *string    `gorm:"type:text" json:"bio,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	return
}

func (User) TableName() string {
	return "users"
}

// UserFollow is one directed edge of the social graph. Followers and following
// are the two join directions over this single table.
type UserFollow struct {
	FollowerID  string    `gorm:"primaryKey;type:uuid" json:"follower_id"`
	FollowingID string    `gorm:"primaryKey;type:uuid;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (UserFollow) TableName() string {
	return "follows"
}
