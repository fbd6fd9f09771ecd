package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"bookrating/internal/metrics"
	"bookrating/internal/microservices/http-api/dto"
	"bookrating/internal/microservices/http-api/models"
	"bookrating/internal/microservices/http-api/repository"
)

// Comment bounds in characters, after trimming
const (
	MinCommentLength = 10
	MaxCommentLength = 5000
)

const (
	msgLiked   = "Liked successfully"
	msgUnliked = "Unliked successfully"
)

type ReviewService interface {
	Create(ctx context.Context, userID string, req dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	Get(ctx context.Context, id int64) (*dto.ReviewResponse, error)
	ListMine(ctx context.Context, userID string, page int) (*dto.Paginated[dto.ReviewResponse], error)
	Update(ctx context.Context, userID string, id int64, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, userID string, id int64) error
	ToggleLike(ctx context.Context, userID string, id int64) (*dto.LikeToggleResponse, error)
	ListForBook(ctx context.Context, viewerID string, bookID int64, page int) (*dto.BookReviewsResponse, error)
	ListForBookPublic(ctx context.Context, bookID int64, page int) (*dto.Paginated[dto.ReviewResponse], error)
	ListAll(ctx context.Context, page int) (*dto.Paginated[dto.ReviewResponse], error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	bookRepo   repository.BookRepository
	userRepo   repository.UserRepository
	cache      *repository.BookCache
	logger     *slog.Logger
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	bookRepo repository.BookRepository,
	userRepo repository.UserRepository,
	cache *repository.BookCache,
	logger *slog.Logger,
) ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &reviewService{
		reviewRepo: reviewRepo,
		bookRepo:   bookRepo,
		userRepo:   userRepo,
		cache:      cache,
		logger:     logger,
	}
}

// validateReview applies the create constraints; a blank comment counts as no comment
func validateReview(rating int, comment *string) (*string, error) {
	if rating < models.MinRating || rating > models.MaxRating {
		return nil, newValidationError("rating", fmt.Sprintf("must be between %d and %d", models.MinRating, models.MaxRating))
	}
	if comment == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) < MinCommentLength {
		return nil, newValidationError("comment", fmt.Sprintf("must be at least %d characters", MinCommentLength))
	}
	if utf8.RuneCountInString(trimmed) > MaxCommentLength {
		return nil, newValidationError("comment", fmt.Sprintf("must be at most %d characters", MaxCommentLength))
	}
	return &trimmed, nil
}

// Create stores a new review of an existing book
func (s *reviewService) Create(ctx context.Context, userID string, req dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	comment, err := validateReview(req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	ok, err := s.bookRepo.Exists(ctx, req.BookID)
	if err := mustExist(ok, err, ErrBookNotFound, "check book"); err != nil {
		return nil, err
	}

	review := &models.Rating{
		UserID:  userID,
		BookID:  req.BookID,
		Rating:  req.Rating,
		Comment: comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	s.invalidate(ctx, req.BookID)

	s.logger.Info("review_created", "review_id", review.ID, "book_id", review.BookID, "user_id", userID)
	resp := dto.FromModelToReviewResponse(review)
	return &resp, nil
}

func (s *reviewService) Get(ctx context.Context, id int64) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, ErrReviewNotFound, "find review")
	}
	resp := dto.FromModelToReviewResponse(review)
	return &resp, nil
}

// ListMine lists the requester's own reviews
func (s *reviewService) ListMine(ctx context.Context, userID string, page int) (*dto.Paginated[dto.ReviewResponse], error) {
	page = normalizePage(page)
	reviews, total, err := s.reviewRepo.ListByUser(ctx, userID, page, ReviewsPageSize)
	if err != nil {
		return nil, fmt.Errorf("list user reviews: %w", err)
	}
	return dto.NewPaginated(toReviewResponses(reviews), page, ReviewsPageSize, total), nil
}

// Update: not found, then ownership, then validation and write
func (s *reviewService) Update(ctx context.Context, userID string, id int64, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, ErrReviewNotFound, "find review")
	}
	if review.UserID != userID {
		return nil, ErrNotOwner
	}

	comment, err := validateReview(req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"rating": req.Rating, "comment": comment}
	if err := s.reviewRepo.Update(ctx, review, fields); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	review.Rating = req.Rating
	review.Comment = comment
	s.invalidate(ctx, review.BookID)

	s.logger.Info("review_updated", "review_id", review.ID, "user_id", userID)
	resp := dto.FromModelToReviewResponse(review)
	return &resp, nil
}

func (s *reviewService) Delete(ctx context.Context, userID string, id int64) error {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return lookupErr(err, ErrReviewNotFound, "find review")
	}
	if review.UserID != userID {
		return ErrNotOwner
	}
	if err := s.reviewRepo.Delete(ctx, review); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	s.invalidate(ctx, review.BookID)

	s.logger.Info("review_deleted", "review_id", id, "user_id", userID)
	return nil
}

func (s *reviewService) ToggleLike(ctx context.Context, userID string, id int64) (*dto.LikeToggleResponse, error) {
	if _, err := s.reviewRepo.FindByID(ctx, id); err != nil {
		return nil, lookupErr(err, ErrReviewNotFound, "find review")
	}

	liked, likes, err := s.reviewRepo.ToggleLike(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("toggle like: %w", err)
	}
	metrics.RecordToggle("review_like", liked)
	s.logger.Info("like_toggled", "review_id", id, "user_id", userID, "liked", liked)

	msg := msgUnliked
	if liked {
		msg = msgLiked
	}
	return &dto.LikeToggleResponse{Message: msg, Likes: likes, IsLiked: liked}, nil
}

// ListForBook returns one page of a book's reviews with reviewer cards and the viewer's like state
func (s *reviewService) ListForBook(ctx context.Context, viewerID string, bookID int64, page int) (*dto.BookReviewsResponse, error) {
	ok, err := s.bookRepo.Exists(ctx, bookID)
	if err := mustExist(ok, err, ErrBookNotFound, "check book"); err != nil {
		return nil, err
	}

	page = normalizePage(page)
	reviews, total, err := s.reviewRepo.ListByBook(ctx, bookID, page, ReviewsPageSize)
	if err != nil {
		return nil, fmt.Errorf("list book reviews: %w", err)
	}
	commented, err := s.reviewRepo.CountCommented(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	ids := make([]int64, 0, len(reviews))
	users := make([]models.User, 0, len(reviews))
	for i := range reviews {
		ids = append(ids, reviews[i].ID)
		if reviews[i].User != nil {
			users = append(users, *reviews[i].User)
		}
	}
	liked, err := s.reviewRepo.LikedIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	infos, err := buildUserInfos(ctx, s.userRepo, viewerID, users)
	if err != nil {
		return nil, err
	}

	items := make([]dto.BookReviewItem, 0, len(reviews))
	for i := range reviews {
		items = append(items, dto.BookReviewItem{
			Data:    dto.FromModelToReviewResponse(&reviews[i]),
			User:    infos[reviews[i].UserID],
			IsLiked: liked[reviews[i].ID],
		})
	}

	return &dto.BookReviewsResponse{
		Reviews:    commented,
		Ratings:    items,
		Pagination: dto.NewPagination(page, ReviewsPageSize, total),
	}, nil
}

// ListForBookPublic is the anonymous variant of ListForBook
func (s *reviewService) ListForBookPublic(ctx context.Context, bookID int64, page int) (*dto.Paginated[dto.ReviewResponse], error) {
	ok, err := s.bookRepo.Exists(ctx, bookID)
	if err := mustExist(ok, err, ErrBookNotFound, "check book"); err != nil {
		return nil, err
	}

	page = normalizePage(page)
	reviews, total, err := s.reviewRepo.ListByBook(ctx, bookID, page, ReviewsPageSize)
	if err != nil {
		return nil, fmt.Errorf("list book reviews: %w", err)
	}
	return dto.NewPaginated(toReviewResponses(reviews), page, ReviewsPageSize, total), nil
}

// ListAll is the global feed, newest first
func (s *reviewService) ListAll(ctx context.Context, page int) (*dto.Paginated[dto.ReviewResponse], error) {
	page = normalizePage(page)
	reviews, total, err := s.reviewRepo.ListAll(ctx, page, ReviewsPageSize)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return dto.NewPaginated(toReviewResponses(reviews), page, ReviewsPageSize, total), nil
}

// invalidate drops cached book payloads whose counters the write changed
func (s *reviewService) invalidate(ctx context.Context, bookID int64) {
	if err := s.cache.InvalidateBook(ctx, bookID); err != nil {
		s.logger.Warn("cache_invalidate_failed", "book_id", bookID, "error", err)
	}
}

func toReviewResponses(reviews []models.Rating) []dto.ReviewResponse {
	out := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, dto.FromModelToReviewResponse(&reviews[i]))
	}
	return out
}
