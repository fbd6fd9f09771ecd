package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"bookrating/internal/microservices/http-api/dto"
	"bookrating/internal/microservices/http-api/models"
	"bookrating/internal/microservices/http-api/repository"
)

const MaxCommentContentLength = 5000

type CommentService interface {
	Create(ctx context.Context, userID string, reviewID int64, req dto.CreateCommentDTO) (*dto.CommentResponse, error)
	Get(ctx context.Context, viewerID string, id int64) (*dto.CommentResponse, error)
	ListForReview(ctx context.Context, viewerID string, reviewID int64, page int) (*dto.Paginated[dto.CommentResponse], error)
	ListMine(ctx context.Context, userID string, page int) (*dto.Paginated[dto.CommentResponse], error)
	Update(ctx context.Context, userID string, id int64, req dto.UpdateCommentDTO) (*dto.CommentResponse, error)
	Delete(ctx context.Context, userID string, id int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
	logger      *slog.Logger
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository, logger *slog.Logger) CommentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &commentService{commentRepo: commentRepo, reviewRepo: reviewRepo, logger: logger}
}

func validateCommentContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", newValidationError("content", "is required")
	}
	if utf8.RuneCountInString(trimmed) > MaxCommentContentLength {
		return "", newValidationError("content", fmt.Sprintf("must be at most %d characters", MaxCommentContentLength))
	}
	return trimmed, nil
}

// Create posts a comment on an existing review. It stays hidden from other readers until approved.
func (s *commentService) Create(ctx context.Context, userID string, reviewID int64, req dto.CreateCommentDTO) (*dto.CommentResponse, error) {
	content, err := validateCommentContent(req.Content)
	if err != nil {
		return nil, err
	}
	if _, err := s.reviewRepo.FindByID(ctx, reviewID); err != nil {
		return nil, lookupErr(err, ErrReviewNotFound, "find review")
	}

	comment := &models.ReviewComment{RatingID: reviewID, UserID: userID, Content: content}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	s.logger.Info("comment_created", "comment_id", comment.ID, "review_id", reviewID, "user_id", userID)

	return s.reload(ctx, comment.ID)
}

func (s *commentService) reload(ctx context.Context, id int64) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, ErrCommentNotFound, "find comment")
	}
	resp := dto.FromModelToCommentResponse(comment)
	return &resp, nil
}

// Get hides a pending comment from everyone but its author
func (s *commentService) Get(ctx context.Context, viewerID string, id int64) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, ErrCommentNotFound, "find comment")
	}
	if !comment.IsApproved && comment.UserID != viewerID {
		return nil, ErrCommentNotFound
	}
	resp := dto.FromModelToCommentResponse(comment)
	return &resp, nil
}

func (s *commentService) ListForReview(ctx context.Context, viewerID string, reviewID int64, page int) (*dto.Paginated[dto.CommentResponse], error) {
	if _, err := s.reviewRepo.FindByID(ctx, reviewID); err != nil {
		return nil, lookupErr(err, ErrReviewNotFound, "find review")
	}
	page = normalizePage(page)
	comments, total, err := s.commentRepo.ListForReview(ctx, reviewID, viewerID, page, CommentsPageSize)
	if err != nil {
		return nil, fmt.Errorf("list review comments: %w", err)
	}
	return dto.NewPaginated(dto.FromModelsToCommentResponses(comments), page, CommentsPageSize, total), nil
}

func (s *commentService) ListMine(ctx context.Context, userID string, page int) (*dto.Paginated[dto.CommentResponse], error) {
	page = normalizePage(page)
	comments, total, err := s.commentRepo.ListByUser(ctx, userID, page, CommentsPageSize)
	if err != nil {
		return nil, fmt.Errorf("list user comments: %w", err)
	}
	return dto.NewPaginated(dto.FromModelsToCommentResponses(comments), page, CommentsPageSize, total), nil
}

// Update: not found, then ownership, then validation. An edit goes back to moderation.
func (s *commentService) Update(ctx context.Context, userID string, id int64, req dto.UpdateCommentDTO) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, ErrCommentNotFound, "find comment")
	}
	if comment.UserID != userID {
		return nil, ErrNotOwner
	}
	content, err := validateCommentContent(req.Content)
	if err != nil {
		return nil, err
	}

	if err := s.commentRepo.Update(ctx, comment, map[string]any{"content": content, "is_approved": false}); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	s.logger.Info("comment_updated", "comment_id", id, "user_id", userID)
	return s.reload(ctx, id)
}

func (s *commentService) Delete(ctx context.Context, userID string, id int64) error {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return lookupErr(err, ErrCommentNotFound, "find comment")
	}
	if comment.UserID != userID {
		return ErrNotOwner
	}
	if err := s.commentRepo.Delete(ctx, comment); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	s.logger.Info("comment_deleted", "comment_id", id, "user_id", userID)
	return nil
}
