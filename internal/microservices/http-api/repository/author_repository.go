package repository

import (
	"context"

	"bookrating/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type AuthorRepository interface {
	List(ctx context.Context, page, pageSize int) ([]models.Author, int64, error)
	Search(ctx context.Context, query string) ([]models.Author, error)
	FindByID(ctx context.Context, id int64) (*models.Author, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ToggleFollow(ctx context.Context, userID string, authorID int64) (bool, error)
	IsFollowing(ctx context.Context, userID string, authorID int64) (bool, error)
}

type authorRepository struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func withAuthorRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Books", func(db *gorm.DB) *gorm.DB {
		return db.Order("books.title ASC")
	}).Preload("Quotes")
}

// List returns authors alphabetically with their books and quotes
func (r *authorRepository) List(ctx context.Context, page, pageSize int) ([]models.Author, int64, error) {
	var authors []models.Author
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Author{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(page, pageSize)
	err := r.db.WithContext(ctx).
		Scopes(withAuthorRelations).
		Order("name ASC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&authors).Error
	if err != nil {
		return nil, 0, err
	}
	return authors, total, nil
}

// Search matches the query as a case-insensitive literal substring of the name
func (r *authorRepository) Search(ctx context.Context, query string) ([]models.Author, error) {
	var authors []models.Author
	err := r.db.WithContext(ctx).
		Scopes(withAuthorRelations).
		Where("LOWER(name)"+LikeClause, ContainsPattern(query)).
		Order("name ASC").
		Order("id ASC").
		Find(&authors).Error
	return authors, err
}

func (r *authorRepository) FindByID(ctx context.Context, id int64) (*models.Author, error) {
	var author models.Author
	if err := r.db.WithContext(ctx).Scopes(withAuthorRelations).First(&author, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *authorRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return edgeExists(r.db.WithContext(ctx), &models.Author{}, map[string]any{"id": id})
}

// ToggleFollow returns true when the user follows the author afterwards
func (r *authorRepository) ToggleFollow(ctx context.Context, userID string, authorID int64) (bool, error) {
	var following bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		following, _, err = toggleEdge(tx, &models.AuthorFollow{UserID: userID, AuthorID: authorID}, nil)
		return err
	})
	return following, err
}

func (r *authorRepository) IsFollowing(ctx context.Context, userID string, authorID int64) (bool, error) {
	return edgeExists(r.db.WithContext(ctx), &models.AuthorFollow{}, map[string]any{
		"user_id":   userID,
		"author_id": authorID,
	})
}
