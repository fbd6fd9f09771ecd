package repository

import (
	"context"

	"bookrating/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Rating) error
	FindByID(ctx context.Context, id int64) (*models.Rating, error)
	Update(ctx context.Context, review *models.Rating, fields map[string]any) error
	Delete(ctx context.Context, review *models.Rating) error
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.Rating, int64, error)
	ListByBook(ctx context.Context, bookID int64, page, pageSize int) ([]models.Rating, int64, error)
	ListAll(ctx context.Context, page, pageSize int) ([]models.Rating, int64, error)
	CountCommented(ctx context.Context, bookID int64) (int64, error)
	ToggleLike(ctx context.Context, userID string, reviewID int64) (bool, int64, error)
	LikedIDs(ctx context.Context, userID string, reviewIDs []int64) (map[int64]bool, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts a review; the rating hooks refresh the book's counters in the same transaction
func (r *reviewRepository) Create(ctx context.Context, review *models.Rating) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) FindByID(ctx context.Context, id int64) (*models.Rating, error) {
	var review models.Rating
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Book").
		First(&review, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Update writes only the given columns of an already loaded review
func (r *reviewRepository) Update(ctx context.Context, review *models.Rating, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(review).Updates(fields).Error
}

func (r *reviewRepository) Delete(ctx context.Context, review *models.Rating) error {
	return r.db.WithContext(ctx).Delete(review).Error
}

// ListByUser returns the reviews written by one user, newest first
func (r *reviewRepository) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.Rating, int64, error) {
	return r.list(ctx, r.db.Where("user_id = ?", userID), page, pageSize, "Book")
}

// ListByBook returns the reviews of one book, newest first, with the reviewer attached
func (r *reviewRepository) ListByBook(ctx context.Context, bookID int64, page, pageSize int) ([]models.Rating, int64, error) {
	return r.list(ctx, r.db.Where("book_id = ?", bookID), page, pageSize, "User")
}

// ListAll is the global feed
func (r *reviewRepository) ListAll(ctx context.Context, page, pageSize int) ([]models.Rating, int64, error) {
	return r.list(ctx, r.db, page, pageSize, "User", "Book")
}

func (r *reviewRepository) list(ctx context.Context, scope *gorm.DB, page, pageSize int, preloads ...string) ([]models.Rating, int64, error) {
	var reviews []models.Rating
	var total int64

	query := scope.WithContext(ctx).Model(&models.Rating{})
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(page, pageSize)
	find := query.Session(&gorm.Session{})
	for _, p := range preloads {
		find = find.Preload(p)
	}
	err := find.Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// CountCommented counts the ratings of a book that carry a comment
func (r *reviewRepository) CountCommented(ctx context.Context, bookID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("book_id = ? AND comment IS NOT NULL", bookID).
		Count(&count).Error
	return count, err
}

// ToggleLike adds or removes the user's like and returns the new state and like count
func (r *reviewRepository) ToggleLike(ctx context.Context, userID string, reviewID int64) (bool, int64, error) {
	var liked bool
	var likes int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		liked, likes, err = toggleEdge(tx,
			&models.RatingLike{UserID: userID, RatingID: reviewID},
			&counterColumn{model: &models.Rating{}, id: reviewID, column: "likes"},
		)
		return err
	})
	if err != nil {
		return false, 0, err
	}
	return liked, likes, nil
}

// LikedIDs reports which of the given reviews the user has liked
func (r *reviewRepository) LikedIDs(ctx context.Context, userID string, reviewIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool, len(reviewIDs))
	if userID == "" || len(reviewIDs) == 0 {
		return liked, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.RatingLike{}).
		Where("user_id = ? AND rating_id IN ?", userID, reviewIDs).
		Pluck("rating_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
