package repository

import (
	"context"

	"bookrating/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.ReviewComment) error
	FindByID(ctx context.Context, id int64) (*models.ReviewComment, error)
	Update(ctx context.Context, comment *models.ReviewComment, fields map[string]any) error
	Delete(ctx context.Context, comment *models.ReviewComment) error
	ListForReview(ctx context.Context, reviewID int64, viewerID string, page, pageSize int) ([]models.ReviewComment, int64, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.ReviewComment, int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.ReviewComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id int64) (*models.ReviewComment, error) {
	var comment models.ReviewComment
	err := r.db.WithContext(ctx).Preload("User").First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.ReviewComment, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(comment).Updates(fields).Error
}

func (r *commentRepository) Delete(ctx context.Context, comment *models.ReviewComment) error {
	return r.db.WithContext(ctx).Delete(comment).Error
}

// ListForReview returns the approved comments of a review plus the viewer's own
// pending ones, oldest first so a thread reads top to bottom
func (r *commentRepository) ListForReview(ctx context.Context, reviewID int64, viewerID string, page, pageSize int) ([]models.ReviewComment, int64, error) {
	scope := r.db.Where("rating_id = ?", reviewID)
	if viewerID == "" {
		scope = scope.Where("is_approved = ?", true)
	} else {
		scope = scope.Where("(is_approved = ? OR user_id = ?)", true, viewerID)
	}
	return r.list(ctx, scope, "created_at ASC, id ASC", page, pageSize)
}

// ListByUser returns everything the user wrote, approved or not, newest first
func (r *commentRepository) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.ReviewComment, int64, error) {
	return r.list(ctx, r.db.Where("user_id = ?", userID), "created_at DESC, id DESC", page, pageSize)
}

func (r *commentRepository) list(ctx context.Context, scope *gorm.DB, order string, page, pageSize int) ([]models.ReviewComment, int64, error) {
	var comments []models.ReviewComment
	var total int64

	query := scope.WithContext(ctx).Model(&models.ReviewComment{})
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(page, pageSize)
	err := query.Session(&gorm.Session{}).
		Preload("User").
		Order(order).
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}
