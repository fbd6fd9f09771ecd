package dto

import (
	"time"

	"bookrating/internal/microservices/http-api/models"
)

type BookSummary struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Image  string  `json:"image"`
	Rating float64 `json:"rating"`
}

func FromModelToBookSummary(b *models.Book) BookSummary {
	return BookSummary{ID: b.ID, Title: b.Title, Image: b.Image, Rating: b.Rating}
}

type AuthorSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BookResponse struct {
	ID            int64              `json:"id"`
	Title         string             `json:"title"`
	Subtitle      *string            `json:"subtitle,omitempty"`
	Description   string             `json:"description"`
	PublishedDate string             `json:"published_date"`
	NumberOfPages int                `json:"number_of_pages"`
	Image         string             `json:"image"`
	ISBN10        *string            `json:"isbn10,omitempty"`
	ISBN13        *string            `json:"isbn13,omitempty"`
	Rating        float64            `json:"rating"`
	RatingsCount  int64              `json:"ratings_count"`
	AuthorID      int64              `json:"author_id"`
	Author        *AuthorSummary     `json:"author,omitempty"`
	Categories    []CategoryResponse `json:"categories,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// FromModelToBookResponse converts a Book model to BookResponse DTO
func FromModelToBookResponse(b *models.Book) BookResponse {
	resp := BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Subtitle:      b.Subtitle,
		Description:   b.Description,
		PublishedDate: b.PublishedDate,
		NumberOfPages: b.NumberOfPages,
		Image:         b.Image,
		ISBN10:        b.ISBN10,
		ISBN13:        b.ISBN13,
		Rating:        b.Rating,
		RatingsCount:  b.RatingsCount,
		AuthorID:      b.AuthorID,
		CreatedAt:     b.CreatedAt,
	}
	if b.Author != nil {
		resp.Author = &AuthorSummary{ID: b.Author.ID, Name: b.Author.Name}
	}
	for _, c := range b.Categories {
		resp.Categories = append(resp.Categories, CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return resp
}

func FromModelsToBookResponses(books []models.Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for i := range books {
		out = append(out, FromModelToBookResponse(&books[i]))
	}
	return out
}

// TrendingBookResponse carries the number of ratings the ranking used
type TrendingBookResponse struct {
	BookResponse
	RatingCount int64 `json:"rating_count"`
}

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
