package repository

import (
	"context"

	"bookrating/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ToggleLike(ctx context.Context, userID string, categoryID int64) (bool, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return edgeExists(r.db.WithContext(ctx), &models.Category{}, map[string]any{"id": id})
}

func (r *categoryRepository) ToggleLike(ctx context.Context, userID string, categoryID int64) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		liked, _, err = toggleEdge(tx, &models.CategoryLike{UserID: userID, CategoryID: categoryID}, nil)
		return err
	})
	return liked, err
}
