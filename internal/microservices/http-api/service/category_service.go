package service

import (
	"context"
	"fmt"
	"log/slog"

	"bookrating/internal/metrics"
	"bookrating/internal/microservices/http-api/dto"
	"bookrating/internal/microservices/http-api/repository"
)

type CategoryService interface {
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	ToggleLike(ctx context.Context, userID string, id int64) (*dto.LikeToggleResponse, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	logger       *slog.Logger
}

func NewCategoryService(categoryRepo repository.CategoryRepository, logger *slog.Logger) CategoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &categoryService{categoryRepo: categoryRepo, logger: logger}
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

// ToggleLike marks or unmarks a favourite genre; there is no counter
func (s *categoryService) ToggleLike(ctx context.Context, userID string, id int64) (*dto.LikeToggleResponse, error) {
	ok, err := s.categoryRepo.Exists(ctx, id)
	if err := mustExist(ok, err, ErrCategoryNotFound, "check category"); err != nil {
		return nil, err
	}
	liked, err := s.categoryRepo.ToggleLike(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("toggle category like: %w", err)
	}
	metrics.RecordToggle("category_like", liked)

	msg := msgUnliked
	if liked {
		msg = msgLiked
	}
	return &dto.LikeToggleResponse{Message: msg, IsLiked: liked}, nil
}
