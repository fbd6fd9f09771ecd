package repository

import (
	"context"
	"time"

	"bookrating/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for user data operations, the social graph and the personal shelf.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdateProfile(ctx context.Context, id string, fields map[string]any) error

	ToggleFollow(ctx context.Context, followerID, followingID string) (bool, error)
	FollowedAmong(ctx context.Context, followerID string, ids []string) (map[string]bool, error)
	Followers(ctx context.Context, userID string, page, pageSize int) ([]models.User, int64, error)
	Following(ctx context.Context, userID string, page, pageSize int) ([]models.User, int64, error)
	Stats(ctx context.Context, ids []string) (map[string]UserStats, error)

	Shelf(ctx context.Context, userID string) ([]models.UserBook, error)
	SetShelfStatus(ctx context.Context, userID string, bookID int64, status string) error
	RemoveFromShelf(ctx context.Context, userID string, bookID int64) (bool, error)
}

// UserStats are the aggregated counters shown on profile cards
type UserStats struct {
	Reviews   int64
	Followers int64
	Following int64
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository in a GORM implementation
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	// return nil on error so a zero-value user is never mistaken for a match
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).UpdateColumn("last_login", at).Error
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ToggleFollow flips the follower -> following edge and reports whether it exists afterwards
func (r *userRepository) ToggleFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	var following bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		following, _, err = toggleEdge(tx, &models.UserFollow{FollowerID: followerID, FollowingID: followingID}, nil)
		return err
	})
	return following, err
}

// FollowedAmong reports which of ids the follower currently follows
func (r *userRepository) FollowedAmong(ctx context.Context, followerID string, ids []string) (map[string]bool, error) {
	followed := make(map[string]bool, len(ids))
	if followerID == "" || len(ids) == 0 {
		return followed, nil
	}
	var found []string
	err := r.db.WithContext(ctx).
		Model(&models.UserFollow{}).
		Where("follower_id = ? AND following_id IN ?", followerID, ids).
		Pluck("following_id", &found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		followed[id] = true
	}
	return followed, nil
}

// Followers lists the users following userID
func (r *userRepository) Followers(ctx context.Context, userID string, page, pageSize int) ([]models.User, int64, error) {
	return r.edgeUsers(ctx, "follows.follower_id", "follows.following_id", userID, page, pageSize)
}

// Following lists the users userID follows; same edge table, opposite join direction
func (r *userRepository) Following(ctx context.Context, userID string, page, pageSize int) ([]models.User, int64, error) {
	return r.edgeUsers(ctx, "follows.following_id", "follows.follower_id", userID, page, pageSize)
}

func (r *userRepository) edgeUsers(ctx context.Context, joinCol, filterCol, userID string, page, pageSize int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	edges := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN follows ON "+joinCol+" = users.id").
		Where(filterCol+" = ?", userID)

	if err := edges.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(page, pageSize)
	err := edges.Session(&gorm.Session{}).
		Order("follows.created_at DESC").
		Order("users.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

type countRow struct {
	ID    string
	Count int64
}

// Stats aggregates review, follower and following counts for every id in one query each
func (r *userRepository) Stats(ctx context.Context, ids []string) (map[string]UserStats, error) {
	stats := make(map[string]UserStats, len(ids))
	if len(ids) == 0 {
		return stats, nil
	}

	counts := func(model any, col string) ([]countRow, error) {
		var rows []countRow
		err := r.db.WithContext(ctx).
			Model(model).
			Select(col+" AS id, COUNT(*) AS count").
			Where(col+" IN ?", ids).
			Group(col).
			Scan(&rows).Error
		return rows, err
	}

	reviews, err := counts(&models.Rating{}, "user_id")
	if err != nil {
		return nil, err
	}
	followers, err := counts(&models.UserFollow{}, "following_id")
	if err != nil {
		return nil, err
	}
	following, err := counts(&models.UserFollow{}, "follower_id")
	if err != nil {
		return nil, err
	}

	for _, row := range reviews {
		s := stats[row.ID]
		s.Reviews = row.Count
		stats[row.ID] = s
	}
	for _, row := range followers {
		s := stats[row.ID]
		s.Followers = row.Count
		stats[row.ID] = s
	}
	for _, row := range following {
		s := stats[row.ID]
		s.Following = row.Count
		stats[row.ID] = s
	}
	return stats, nil
}

// Shelf returns the user's books with their reading status, most recently changed first
func (r *userRepository) Shelf(ctx context.Context, userID string) ([]models.UserBook, error) {
	var items []models.UserBook
	err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("Book.Author").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Order("book_id ASC").
		Find(&items).Error
	return items, err
}

// SetShelfStatus upserts the (user, book) pair
func (r *userRepository) SetShelfStatus(ctx context.Context, userID string, bookID int64, status string) error {
	item := models.UserBook{UserID: userID, BookID: bookID, Status: status, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(&item).Error
}

func (r *userRepository) RemoveFromShelf(ctx context.Context, userID string, bookID int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.UserBook{UserID: userID, BookID: bookID})
	return res.RowsAffected > 0, res.Error
}
