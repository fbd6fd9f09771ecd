package dto

import (
	"time"

	"bookrating/internal/microservices/http-api/models"
)

// CreateReviewDTO for POST /reviews. Ratings use the 1..10 scale; the comment length floor is applied after trimming by the service.
type CreateReviewDTO struct {
	Rating  int     `json:"rating" binding:"required,min=1,max=10"`
	Comment *string `json:"comment" binding:"omitempty,max=5000"`
	BookID  int64   `json:"book_id" binding:"required,min=1"`
}

// UpdateReviewDTO for PUT /reviews/:id. The constraints match create but are
// checked by the service once ownership is settled, so a stranger gets 403 first.
type UpdateReviewDTO struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

type ReviewerSummary struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Username       string  `json:"username"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

type ReviewResponse struct {
	ID        int64            `json:"id"`
	UserID    string           `json:"user_id"`
	BookID    int64            `json:"book_id"`
	Rating    int              `json:"rating"`
	Comment   *string          `json:"comment"`
	Likes     int64            `json:"likes"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	User      *ReviewerSummary `json:"user,omitempty"`
	Book      *BookSummary     `json:"book,omitempty"`
}

// FromModelToReviewResponse converts a Rating model to ReviewResponse DTO
func FromModelToReviewResponse(r *models.Rating) ReviewResponse {
	resp := ReviewResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		BookID:    r.BookID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		Likes:     r.Likes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.User != nil {
		resp.User = &ReviewerSummary{
			ID:             r.User.ID,
			Name:           r.User.Name,
			Username:       r.User.Username,
			ProfilePicture: r.User.ProfilePicture,
		}
	}
	if r.Book != nil {
		s := FromModelToBookSummary(r.Book)
		resp.Book = &s
	}
	return resp
}

// UserInfo is the reviewer card attached to each review of a book
type UserInfo struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Reviews        int64   `json:"reviews"`
	Followers      int64   `json:"followers"`
	ProfilePicture *string `json:"profile_picture"`
	IsFollowed     bool    `json:"is_followed"`
}

type BookReviewItem struct {
	Data    ReviewResponse `json:"data"`
	User    UserInfo       `json:"user"`
	IsLiked bool           `json:"is_liked"`
}

// BookReviewsResponse: Reviews counts ratings that carry a comment
type BookReviewsResponse struct {
	Reviews    int64            `json:"reviews"`
	Ratings    []BookReviewItem `json:"ratings"`
	Pagination Pagination       `json:"pagination"`
}

type ReviewMutationResponse struct {
	Message string         `json:"message"`
	Review  ReviewResponse `json:"review"`
}

type LikeToggleResponse struct {
	Message string `json:"message"`
	Likes   int64  `json:"likes"`
	IsLiked bool   `json:"is_liked"`
}
