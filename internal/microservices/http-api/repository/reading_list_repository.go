package repository

import (
	"context"
	"time"

	"bookrating/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReadingListRepository interface {
	Create(ctx context.Context, list *models.ReadingList) error
	FindByID(ctx context.Context, id int64) (*models.ReadingList, error)
	ListByUser(ctx context.Context, userID string, publicOnly bool, page, pageSize int) ([]models.ReadingList, int64, error)
	ListFeatured(ctx context.Context, page, pageSize int) ([]models.ReadingList, int64, error)
	Update(ctx context.Context, list *models.ReadingList, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
	AddBook(ctx context.Context, listID, bookID int64) error
	RemoveBook(ctx context.Context, listID, bookID int64) (bool, error)
}

type readingListRepository struct {
	db *gorm.DB
}

func NewReadingListRepository(db *gorm.DB) ReadingListRepository {
	return &readingListRepository{db: db}
}

func withListBooks(db *gorm.DB) *gorm.DB {
	return db.Preload("Books").Preload("Books.Author")
}

func (r *readingListRepository) Create(ctx context.Context, list *models.ReadingList) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(list).Error
}

func (r *readingListRepository) FindByID(ctx context.Context, id int64) (*models.ReadingList, error) {
	var list models.ReadingList
	if err := r.db.WithContext(ctx).Scopes(withListBooks).First(&list, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *readingListRepository) ListByUser(ctx context.Context, userID string, publicOnly bool, page, pageSize int) ([]models.ReadingList, int64, error) {
	scope := r.db.Where("user_id = ?", userID)
	if publicOnly {
		scope = scope.Where("is_public = ?", true)
	}
	return r.list(ctx, scope, page, pageSize)
}

func (r *readingListRepository) ListFeatured(ctx context.Context, page, pageSize int) ([]models.ReadingList, int64, error) {
	return r.list(ctx, r.db.Where("is_public = ? AND is_featured = ?", true, true), page, pageSize)
}

func (r *readingListRepository) list(ctx context.Context, scope *gorm.DB, page, pageSize int) ([]models.ReadingList, int64, error) {
	var lists []models.ReadingList
	var total int64

	query := scope.WithContext(ctx).Model(&models.ReadingList{})
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(page, pageSize)
	err := query.Session(&gorm.Session{}).
		Scopes(withListBooks).
		Order("updated_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&lists).Error
	if err != nil {
		return nil, 0, err
	}
	return lists, total, nil
}

func (r *readingListRepository) Update(ctx context.Context, list *models.ReadingList, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(list).Omit(clause.Associations).Updates(fields).Error
}

// Delete removes the list and its book links
func (r *readingListRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM reading_list_books WHERE reading_list_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.ReadingList{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// AddBook links a book to the list. Returns ErrAlreadyExists when the link is present.
func (r *readingListRepository) AddBook(ctx context.Context, listID, bookID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Table("reading_list_books").
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(map[string]any{"reading_list_id": listID, "book_id": bookID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyExists
		}
		return tx.Model(&models.ReadingList{}).Where("id = ?", listID).UpdateColumn("updated_at", time.Now()).Error
	})
}

func (r *readingListRepository) RemoveBook(ctx context.Context, listID, bookID int64) (bool, error) {
	res := r.db.WithContext(ctx).Exec("DELETE FROM reading_list_books WHERE reading_list_id = ? AND book_id = ?", listID, bookID)
	return res.RowsAffected > 0, res.Error
}
