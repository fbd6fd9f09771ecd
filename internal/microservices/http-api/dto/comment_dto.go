package dto

import (
	"time"

	"bookrating/internal/microservices/http-api/models"
)

// CreateCommentDTO for POST /reviews/:id/comments
type CreateCommentDTO struct {
	Content string `json:"content" binding:"required,max=5000"`
}

// UpdateCommentDTO for PUT /comments/:id. Checked by the service after ownership.
type UpdateCommentDTO struct {
	Content string `json:"content"`
}

type CommentResponse struct {
	ID         int64            `json:"id"`
	ReviewID   int64            `json:"review_id"`
	Content    string           `json:"content"`
	IsApproved bool             `json:"is_approved"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	User       *ReviewerSummary `json:"user,omitempty"`
}

func FromModelToCommentResponse(c *models.ReviewComment) CommentResponse {
	resp := CommentResponse{
		ID:         c.ID,
		ReviewID:   c.RatingID,
		Content:    c.Content,
		IsApproved: c.IsApproved,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	if c.User != nil {
		resp.User = &ReviewerSummary{
			ID:             c.User.ID,
			Name:           c.User.Name,
			Username:       c.User.Username,
			ProfilePicture: c.User.ProfilePicture,
		}
	}
	return resp
}

func FromModelsToCommentResponses(comments []models.ReviewComment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, FromModelToCommentResponse(&comments[i]))
	}
	return out
}
