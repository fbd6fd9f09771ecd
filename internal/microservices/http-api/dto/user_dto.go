package dto

import (
	"time"

	"bookrating/internal/microservices/http-api/models"
)

// ProfileResponse is the requester's own profile
type ProfileResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Bio            *string   `json:"bio,omitempty"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
	Reviews        int64     `json:"reviews"`
	Followers      int64     `json:"followers"`
	Following      int64     `json:"following"`
	CreatedAt      time.Time `json:"created_at"`
}

// UpdateProfileDTO: only provided fields change
type UpdateProfileDTO struct {
	Name           *string `json:"name" binding:"omitempty,min=1,max=255"`
	Bio            *string `json:"bio" binding:"omitempty,max=2000"`
	ProfilePicture *string `json:"profile_picture" binding:"omitempty,url"`
}

type SetShelfStatusDTO struct {
	Status string `json:"status" binding:"required,oneof=want_to_read reading read"`
}

type ShelfItemResponse struct {
	Book      BookResponse `json:"book"`
	Status    string       `json:"status"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func FromModelToShelfItem(ub *models.UserBook) ShelfItemResponse {
	item := ShelfItemResponse{Status: ub.Status, UpdatedAt: ub.UpdatedAt}
	if ub.Book != nil {
		item.Book = FromModelToBookResponse(ub.Book)
	}
	return item
}
