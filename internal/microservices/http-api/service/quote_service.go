package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"bookrating/internal/metrics"
	"bookrating/internal/microservices/http-api/dto"
	"bookrating/internal/microservices/http-api/repository"
)

type QuoteService interface {
	List(ctx context.Context, page int) (*dto.Paginated[dto.QuoteResponse], error)
	Get(ctx context.Context, id int64) (*dto.QuoteResponse, error)
	Search(ctx context.Context, query string) ([]dto.QuoteResponse, error)
	ToggleLike(ctx context.Context, userID string, id int64) (*dto.LikeToggleResponse, error)
}

type quoteService struct {
	quoteRepo repository.QuoteRepository
	logger    *slog.Logger
}

func NewQuoteService(quoteRepo repository.QuoteRepository, logger *slog.Logger) QuoteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &quoteService{quoteRepo: quoteRepo, logger: logger}
}

func (s *quoteService) List(ctx context.Context, page int) (*dto.Paginated[dto.QuoteResponse], error) {
	page = normalizePage(page)
	quotes, total, err := s.quoteRepo.List(ctx, page, QuotesPageSize)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return dto.NewPaginated(dto.FromModelsToQuoteResponses(quotes), page, QuotesPageSize, total), nil
}

func (s *quoteService) Get(ctx context.Context, id int64) (*dto.QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, ErrQuoteNotFound, "find quote")
	}
	resp := dto.FromModelToQuoteResponse(quote)
	return &resp, nil
}

func (s *quoteService) Search(ctx context.Context, query string) ([]dto.QuoteResponse, error) {
	if strings.TrimSpace(query) == "" {
		return []dto.QuoteResponse{}, nil
	}
	quotes, err := s.quoteRepo.Search(ctx, query, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search quotes: %w", err)
	}
	return dto.FromModelsToQuoteResponses(quotes), nil
}

func (s *quoteService) ToggleLike(ctx context.Context, userID string, id int64) (*dto.LikeToggleResponse, error) {
	ok, err := s.quoteRepo.Exists(ctx, id)
	if err := mustExist(ok, err, ErrQuoteNotFound, "check quote"); err != nil {
		return nil, err
	}

	liked, likes, err := s.quoteRepo.ToggleLike(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("toggle quote like: %w", err)
	}
	metrics.RecordToggle("quote_like", liked)
	s.logger.Info("quote_like_toggled", "quote_id", id, "user_id", userID, "liked", liked)

	msg := msgUnliked
	if liked {
		msg = msgLiked
	}
	return &dto.LikeToggleResponse{Message: msg, Likes: likes, IsLiked: liked}, nil
}
