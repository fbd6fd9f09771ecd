package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"bookrating/internal/metrics"
	"bookrating/internal/microservices/http-api/dto"
	"bookrating/internal/microservices/http-api/models"
	"bookrating/internal/microservices/http-api/repository"
)

type BookService interface {
	List(ctx context.Context, page int) (*dto.Paginated[dto.BookResponse], error)
	Get(ctx context.Context, id int64) (*dto.BookResponse, error)
	Search(ctx context.Context, query string) ([]dto.BookResponse, error)
	Trending(ctx context.Context) ([]dto.TrendingBookResponse, error)
	Suggestions(ctx context.Context) ([]dto.BookResponse, error)
	ListByCategory(ctx context.Context, categoryID int64, page int) (*dto.Paginated[dto.BookResponse], error)
}

type bookService struct {
	bookRepo     repository.BookRepository
	categoryRepo repository.CategoryRepository
	cache        *repository.BookCache
	logger       *slog.Logger
}

func NewBookService(
	bookRepo repository.BookRepository,
	categoryRepo repository.CategoryRepository,
	cache *repository.BookCache,
	logger *slog.Logger,
) BookService {
	if logger == nil {
		logger = slog.Default()
	}
	return &bookService{
		bookRepo:     bookRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		logger:       logger,
	}
}

func (s *bookService) List(ctx context.Context, page int) (*dto.Paginated[dto.BookResponse], error) {
	page = normalizePage(page)
	books, total, err := s.bookRepo.List(ctx, page, BooksPageSize)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return dto.NewPaginated(dto.FromModelsToBookResponses(books), page, BooksPageSize, total), nil
}

// Get serves the book from cache when possible
func (s *bookService) Get(ctx context.Context, id int64) (*dto.BookResponse, error) {
	var cached dto.BookResponse
	hit, err := s.cache.GetBook(ctx, id, &cached)
	if err != nil {
		s.logger.Warn("cache_read_failed", "key", "book", "book_id", id, "error", err)
	}
	if s.cache != nil {
		metrics.RecordCacheLookup("book", hit)
	}
	if hit {
		return &cached, nil
	}

	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, ErrBookNotFound, "find book")
	}
	resp := dto.FromModelToBookResponse(book)
	if err := s.cache.SetBook(ctx, id, resp); err != nil {
		s.logger.Warn("cache_write_failed", "key", "book", "book_id", id, "error", err)
	}
	return &resp, nil
}

// Search returns nothing for a blank query instead of the whole catalogue
func (s *bookService) Search(ctx context.Context, query string) ([]dto.BookResponse, error) {
	// the query is matched untrimmed
	if strings.TrimSpace(query) == "" {
		return []dto.BookResponse{}, nil
	}
	books, err := s.bookRepo.Search(ctx, query, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return dto.FromModelsToBookResponses(books), nil
}

// Trending ranks books by number of ratings, highest first, lower id on ties
func (s *bookService) Trending(ctx context.Context) ([]dto.TrendingBookResponse, error) {
	var cached []dto.TrendingBookResponse
	hit, err := s.cache.GetTrending(ctx, &cached)
	if err != nil {
		s.logger.Warn("cache_read_failed", "key", "trending", "error", err)
	}
	if s.cache != nil {
		metrics.RecordCacheLookup("trending", hit)
	}
	if hit {
		return cached, nil
	}

	rows, err := s.bookRepo.TopRated(ctx, TrendingLimit)
	if err != nil {
		return nil, fmt.Errorf("rank books: %w", err)
	}
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.BookID)
	}
	books, err := s.bookRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load trending books: %w", err)
	}
	byID := make(map[int64]*models.Book, len(books))
	for i := range books {
		byID[books[i].ID] = &books[i]
	}

	out := make([]dto.TrendingBookResponse, 0, len(rows))
	for _, r := range rows {
		b, ok := byID[r.BookID]
		if !ok {
			continue
		}
		out = append(out, dto.TrendingBookResponse{
			BookResponse: dto.FromModelToBookResponse(b),
			RatingCount:  r.Count,
		})
	}

	if err := s.cache.SetTrending(ctx, out); err != nil {
		s.logger.Warn("cache_write_failed", "key", "trending", "error", err)
	}
	return out, nil
}

func (s *bookService) Suggestions(ctx context.Context) ([]dto.BookResponse, error) {
	books, err := s.bookRepo.Random(ctx, SuggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("suggest books: %w", err)
	}
	return dto.FromModelsToBookResponses(books), nil
}

func (s *bookService) ListByCategory(ctx context.Context, categoryID int64, page int) (*dto.Paginated[dto.BookResponse], error) {
	ok, err := s.categoryRepo.Exists(ctx, categoryID)
	if err := mustExist(ok, err, ErrCategoryNotFound, "check category"); err != nil {
		return nil, err
	}
	page = normalizePage(page)
	books, total, err := s.bookRepo.ListByCategory(ctx, categoryID, page, BooksPageSize)
	if err != nil {
		return nil, fmt.Errorf("list category books: %w", err)
	}
	return dto.NewPaginated(dto.FromModelsToBookResponses(books), page, BooksPageSize, total), nil
}
