package dto

import (
	"time"

	"bookrating/internal/microservices/http-api/models"
)

type CreateReadingListDTO struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	IsPublic    bool    `json:"is_public"`
}

type UpdateReadingListDTO struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	IsPublic    *bool   `json:"is_public"`
}

type AddBookToListDTO struct {
	BookID int64 `json:"book_id" binding:"required,min=1"`
}

type ReadingListResponse struct {
	ID          int64          `json:"id"`
	UserID      string         `json:"user_id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	IsPublic    bool           `json:"is_public"`
	IsFeatured  bool           `json:"is_featured"`
	Books       []BookResponse `json:"books"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func FromModelToReadingListResponse(l *models.ReadingList) ReadingListResponse {
	return ReadingListResponse{
		ID:          l.ID,
		UserID:      l.UserID,
		Name:        l.Name,
		Description: l.Description,
		IsPublic:    l.IsPublic,
		IsFeatured:  l.IsFeatured,
		Books:       FromModelsToBookResponses(l.Books),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func FromModelsToReadingListResponses(lists []models.ReadingList) []ReadingListResponse {
	out := make([]ReadingListResponse, 0, len(lists))
	for i := range lists {
		out = append(out, FromModelToReadingListResponse(&lists[i]))
	}
	return out
}
