package dto

import (
	"time"

	"bookrating/internal/microservices/http-api/models"
)

type QuoteResponse struct {
	ID        int64          `json:"id"`
	Text      string         `json:"text"`
	Likes     int64          `json:"likes"`
	AuthorID  int64          `json:"author_id"`
	BookID    *int64         `json:"book_id,omitempty"`
	Author    *AuthorSummary `json:"author,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func FromModelToQuoteResponse(q *models.Quote) QuoteResponse {
	resp := QuoteResponse{
		ID:        q.ID,
		Text:      q.Text,
		Likes:     q.Likes,
		AuthorID:  q.AuthorID,
		BookID:    q.BookID,
		CreatedAt: q.CreatedAt,
	}
	if q.Author != nil {
		resp.Author = &AuthorSummary{ID: q.Author.ID, Name: q.Author.Name}
	}
	return resp
}

func FromModelsToQuoteResponses(quotes []models.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, FromModelToQuoteResponse(&quotes[i]))
	}
	return out
}
