package repository

import (
	"context"

	"bookrating/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// TrendingRow is one ranked book with the number of ratings it received
type TrendingRow struct {
	BookID int64
	Count  int64
}

type BookRepository interface {
	List(ctx context.Context, page, pageSize int) ([]models.Book, int64, error)
	FindByID(ctx context.Context, id int64) (*models.Book, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Book, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Search(ctx context.Context, query string, limit int) ([]models.Book, error)
	TopRated(ctx context.Context, limit int) ([]TrendingRow, error)
	Random(ctx context.Context, limit int) ([]models.Book, error)
	ListByCategory(ctx context.Context, categoryID int64, page, pageSize int) ([]models.Book, int64, error)
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// List returns the catalogue newest first with the author attached
func (r *bookRepository) List(ctx context.Context, page, pageSize int) ([]models.Book, int64, error) {
	var books []models.Book
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(page, pageSize)
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&books).Error
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *bookRepository) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Categories").
		First(&book, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// FindByIDs loads books with their author, in no particular order
func (r *bookRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Book, error) {
	var books []models.Book
	if len(ids) == 0 {
		return books, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id IN ?", ids).
		Find(&books).Error
	return books, err
}

func (r *bookRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return edgeExists(r.db.WithContext(ctx), &models.Book{}, map[string]any{"id": id})
}

// Search matches the query as a case-insensitive literal substring of the title or the author's name
func (r *bookRepository) Search(ctx context.Context, query string, limit int) ([]models.Book, error) {
	var books []models.Book
	pattern := ContainsPattern(query)
	err := r.db.WithContext(ctx).
		Joins("JOIN authors ON authors.id = books.author_id").
		Where("LOWER(books.title)"+LikeClause+" OR LOWER(authors.name)"+LikeClause, pattern, pattern).
		Preload("Author").
		Order("books.title ASC").
		Order("books.id ASC").
		Limit(limit).
		Find(&books).Error
	return books, err
}

// TopRated ranks books by raw number of ratings; ties go to the lower id
func (r *bookRepository) TopRated(ctx context.Context, limit int) ([]TrendingRow, error) {
	var rows []TrendingRow
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("book_id, COUNT(*) AS count").
		Group("book_id").
		Order("count DESC").
		Order("book_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *bookRepository) Random(ctx context.Context, limit int) ([]models.Book, error) {
	var books []models.Book
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("RANDOM()").
		Limit(limit).
		Find(&books).Error
	return books, err
}

func (r *bookRepository) ListByCategory(ctx context.Context, categoryID int64, page, pageSize int) ([]models.Book, int64, error) {
	var books []models.Book
	var total int64

	inCategory := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Joins("JOIN book_categories ON book_categories.book_id = books.id").
		Where("book_categories.category_id = ?", categoryID)

	if err := inCategory.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(page, pageSize)
	err := inCategory.Session(&gorm.Session{}).
		Preload("Author").
		Order("books.created_at DESC").
		Order("books.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&books).Error
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}
