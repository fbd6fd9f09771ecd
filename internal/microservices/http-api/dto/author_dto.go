package dto

import (
	"time"

	"bookrating/internal/microservices/http-api/models"
)

type AuthorResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Bio       *string         `json:"bio,omitempty"`
	Books     []BookSummary   `json:"books"`
	Quotes    []QuoteResponse `json:"quotes"`
	CreatedAt time.Time       `json:"created_at"`
}

// FromModelToAuthorResponse converts an Author with preloaded books and quotes
func FromModelToAuthorResponse(a *models.Author) AuthorResponse {
	resp := AuthorResponse{
		ID:        a.ID,
		Name:      a.Name,
		Bio:       a.Bio,
		Books:     make([]BookSummary, 0, len(a.Books)),
		Quotes:    make([]QuoteResponse, 0, len(a.Quotes)),
		CreatedAt: a.CreatedAt,
	}
	for i := range a.Books {
		resp.Books = append(resp.Books, FromModelToBookSummary(&a.Books[i]))
	}
	for i := range a.Quotes {
		resp.Quotes = append(resp.Quotes, FromModelToQuoteResponse(&a.Quotes[i]))
	}
	return resp
}

func FromModelsToAuthorResponses(authors []models.Author) []AuthorResponse {
	out := make([]AuthorResponse, 0, len(authors))
	for i := range authors {
		out = append(out, FromModelToAuthorResponse(&authors[i]))
	}
	return out
}

type FollowToggleResponse struct {
	Message     string `json:"message"`
	IsFollowing bool   `json:"is_following"`
}

// FollowingStatusResponse keeps the camelCase key the front end reads
type FollowingStatusResponse struct {
	IsFollowing bool `json:"isFollowing"`
}
