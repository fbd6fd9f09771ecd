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

const (
	msgAuthorFollowed   = "Author followed successfully"
	msgAuthorUnfollowed = "Author unfollowed successfully"
)

type AuthorService interface {
	List(ctx context.Context, page int) (*dto.Paginated[dto.AuthorResponse], error)
	Search(ctx context.Context, query string) ([]dto.AuthorResponse, error)
	Get(ctx context.Context, id int64) (*dto.AuthorResponse, error)
	ToggleFollow(ctx context.Context, userID string, authorID int64) (*dto.FollowToggleResponse, error)
	IsFollowing(ctx context.Context, userID string, authorID int64) (bool, error)
}

type authorService struct {
	authorRepo repository.AuthorRepository
	logger     *slog.Logger
}

func NewAuthorService(authorRepo repository.AuthorRepository, logger *slog.Logger) AuthorService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authorService{authorRepo: authorRepo, logger: logger}
}

func (s *authorService) List(ctx context.Context, page int) (*dto.Paginated[dto.AuthorResponse], error) {
	page = normalizePage(page)
	authors, total, err := s.authorRepo.List(ctx, page, AuthorsPageSize)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return dto.NewPaginated(dto.FromModelsToAuthorResponses(authors), page, AuthorsPageSize, total), nil
}

func (s *authorService) Search(ctx context.Context, query string) ([]dto.AuthorResponse, error) {
	if strings.TrimSpace(query) == "" {
		return []dto.AuthorResponse{}, nil
	}
	authors, err := s.authorRepo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search authors: %w", err)
	}
	return dto.FromModelsToAuthorResponses(authors), nil
}

func (s *authorService) Get(ctx context.Context, id int64) (*dto.AuthorResponse, error) {
	author, err := s.authorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, ErrAuthorNotFound, "find author")
	}
	resp := dto.FromModelToAuthorResponse(author)
	return &resp, nil
}

func (s *authorService) ToggleFollow(ctx context.Context, userID string, authorID int64) (*dto.FollowToggleResponse, error) {
	ok, err := s.authorRepo.Exists(ctx, authorID)
	if err := mustExist(ok, err, ErrAuthorNotFound, "check author"); err != nil {
		return nil, err
	}

	following, err := s.authorRepo.ToggleFollow(ctx, userID, authorID)
	if err != nil {
		return nil, fmt.Errorf("toggle author follow: %w", err)
	}
	metrics.RecordToggle("author_follow", following)
	s.logger.Info("author_follow_toggled", "author_id", authorID, "user_id", userID, "following", following)

	msg := msgAuthorUnfollowed
	if following {
		msg = msgAuthorFollowed
	}
	return &dto.FollowToggleResponse{Message: msg, IsFollowing: following}, nil
}

func (s *authorService) IsFollowing(ctx context.Context, userID string, authorID int64) (bool, error) {
	ok, err := s.authorRepo.Exists(ctx, authorID)
	if err := mustExist(ok, err, ErrAuthorNotFound, "check author"); err != nil {
		return false, err
	}
	following, err := s.authorRepo.IsFollowing(ctx, userID, authorID)
	if err != nil {
		return false, fmt.Errorf("check author follow: %w", err)
	}
	return following, nil
}
