package repository

import (
	"context"

	"bookrating/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type QuoteRepository interface {
	List(ctx context.Context, page, pageSize int) ([]models.Quote, int64, error)
	FindByID(ctx context.Context, id int64) (*models.Quote, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Search(ctx context.Context, query string, limit int) ([]models.Quote, error)
	ToggleLike(ctx context.Context, userID string, quoteID int64) (bool, int64, error)
	LikedByUser(ctx context.Context, userID string) ([]models.Quote, error)
}

type quoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) List(ctx context.Context, page, pageSize int) ([]models.Quote, int64, error) {
	var quotes []models.Quote
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Quote{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(page, pageSize)
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&quotes).Error
	if err != nil {
		return nil, 0, err
	}
	return quotes, total, nil
}

func (r *quoteRepository) FindByID(ctx context.Context, id int64) (*models.Quote, error) {
	var quote models.Quote
	if err := r.db.WithContext(ctx).Preload("Author").First(&quote, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return edgeExists(r.db.WithContext(ctx), &models.Quote{}, map[string]any{"id": id})
}

func (r *quoteRepository) Search(ctx context.Context, query string, limit int) ([]models.Quote, error) {
	var quotes []models.Quote
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("LOWER(text)"+LikeClause, ContainsPattern(query)).
		Order("likes DESC").
		Order("id ASC").
		Limit(limit).
		Find(&quotes).Error
	return quotes, err
}

// ToggleLike adds or removes the user's like and returns the new state and like count
func (r *quoteRepository) ToggleLike(ctx context.Context, userID string, quoteID int64) (bool, int64, error) {
	var liked bool
	var likes int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		liked, likes, err = toggleEdge(tx,
			&models.QuoteLike{UserID: userID, QuoteID: quoteID},
			&counterColumn{model: &models.Quote{}, id: quoteID, column: "likes"},
		)
		return err
	})
	if err != nil {
		return false, 0, err
	}
	return liked, likes, nil
}

// LikedByUser returns the quotes the user liked, most recent like first
func (r *quoteRepository) LikedByUser(ctx context.Context, userID string) ([]models.Quote, error) {
	var quotes []models.Quote
	err := r.db.WithContext(ctx).
		Preload("Author").
		Joins("JOIN user_quotes ON user_quotes.quote_id = quotes.id").
		Where("user_quotes.user_id = ?", userID).
		Order("user_quotes.created_at DESC").
		Order("quotes.id ASC").
		Find(&quotes).Error
	return quotes, err
}
