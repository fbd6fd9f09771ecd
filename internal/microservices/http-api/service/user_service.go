package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"bookrating/internal/metrics"
	"bookrating/internal/microservices/http-api/dto"
	"bookrating/internal/microservices/http-api/models"
	"bookrating/internal/microservices/http-api/repository"
)

const (
	msgUserFollowed   = "User followed successfully"
	msgUserUnfollowed = "User unfollowed successfully"
)

type UserService interface {
	Profile(ctx context.Context, viewerID, userID string) (*dto.UserInfo, error)
	ToggleFollow(ctx context.Context, followerID, userID string) (*dto.FollowToggleResponse, error)
	Followers(ctx context.Context, viewerID, userID string, page int) (*dto.Paginated[dto.UserInfo], error)
	Following(ctx context.Context, viewerID, userID string, page int) (*dto.Paginated[dto.UserInfo], error)
	Me(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileDTO) (*dto.ProfileResponse, error)
	MyBooks(ctx context.Context, userID string) ([]dto.ShelfItemResponse, error)
	SetBookStatus(ctx context.Context, userID string, bookID int64, status string) error
	RemoveBook(ctx context.Context, userID string, bookID int64) error
	MyQuotes(ctx context.Context, userID string) ([]dto.QuoteResponse, error)
}

type userService struct {
	userRepo  repository.UserRepository
	bookRepo  repository.BookRepository
	quoteRepo repository.QuoteRepository
	logger    *slog.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	bookRepo repository.BookRepository,
	quoteRepo repository.QuoteRepository,
	logger *slog.Logger,
) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		userRepo:  userRepo,
		bookRepo:  bookRepo,
		quoteRepo: quoteRepo,
		logger:    logger,
	}
}

// buildUserInfos computes the profile card of every user, with is_followed
// evaluated for the requesting viewer.
func buildUserInfos(ctx context.Context, userRepo repository.UserRepository, viewerID string, users []models.User) (map[string]dto.UserInfo, error) {
	infos := make(map[string]dto.UserInfo, len(users))
	if len(users) == 0 {
		return infos, nil
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	stats, err := userRepo.Stats(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load user stats: %w", err)
	}
	followed, err := userRepo.FollowedAmong(ctx, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("load follow state: %w", err)
	}

	for _, u := range users {
		infos[u.ID] = dto.UserInfo{
			ID:             u.ID,
			Name:           u.Name,
			Reviews:        stats[u.ID].Reviews,
			Followers:      stats[u.ID].Followers,
			ProfilePicture: u.ProfilePicture,
			IsFollowed:     followed[u.ID],
		}
	}
	return infos, nil
}

func (s *userService) infoList(ctx context.Context, viewerID string, users []models.User) ([]dto.UserInfo, error) {
	infos, err := buildUserInfos(ctx, s.userRepo, viewerID, users)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserInfo, 0, len(users))
	for _, u := range users {
		out = append(out, infos[u.ID])
	}
	return out, nil
}

// Profile is the public card of userID as seen by viewerID
func (s *userService) Profile(ctx context.Context, viewerID, userID string) (*dto.UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, ErrUserNotFound, "find user")
	}
	infos, err := buildUserInfos(ctx, s.userRepo, viewerID, []models.User{*user})
	if err != nil {
		return nil, err
	}
	info := infos[user.ID]
	return &info, nil
}

func (s *userService) ToggleFollow(ctx context.Context, followerID, userID string) (*dto.FollowToggleResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, lookupErr(err, ErrUserNotFound, "find user")
	}
	if followerID == userID {
		return nil, ErrCannotFollowSelf
	}

	following, err := s.userRepo.ToggleFollow(ctx, followerID, userID)
	if err != nil {
		return nil, fmt.Errorf("toggle follow: %w", err)
	}
	metrics.RecordToggle("user_follow", following)
	s.logger.Info("user_follow_toggled", "follower_id", followerID, "following_id", userID, "following", following)

	msg := msgUserUnfollowed
	if following {
		msg = msgUserFollowed
	}
	return &dto.FollowToggleResponse{Message: msg, IsFollowing: following}, nil
}

func (s *userService) Followers(ctx context.Context, viewerID, userID string, page int) (*dto.Paginated[dto.UserInfo], error) {
	return s.edgePage(ctx, viewerID, userID, page, s.userRepo.Followers)
}

func (s *userService) Following(ctx context.Context, viewerID, userID string, page int) (*dto.Paginated[dto.UserInfo], error) {
	return s.edgePage(ctx, viewerID, userID, page, s.userRepo.Following)
}

type edgeLister func(ctx context.Context, userID string, page, pageSize int) ([]models.User, int64, error)

func (s *userService) edgePage(ctx context.Context, viewerID, userID string, page int, list edgeLister) (*dto.Paginated[dto.UserInfo], error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, lookupErr(err, ErrUserNotFound, "find user")
	}
	page = normalizePage(page)
	users, total, err := list(ctx, userID, page, FollowsPageSize)
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	infos, err := s.infoList(ctx, viewerID, users)
	if err != nil {
		return nil, err
	}
	return dto.NewPaginated(infos, page, FollowsPageSize, total), nil
}

func (s *userService) Me(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, ErrUserNotFound, "find user")
	}
	stats, err := s.userRepo.Stats(ctx, []string{userID})
	if err != nil {
		return nil, fmt.Errorf("load user stats: %w", err)
	}
	st := stats[userID]
	return &dto.ProfileResponse{
		ID:             user.ID,
		Name:           user.Name,
		Username:       user.Username,
		Email:          user.Email,
		Role:           user.Role,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		Reviews:        st.Reviews,
		Followers:      st.Followers,
		Following:      st.Following,
		CreatedAt:      user.CreatedAt,
	}, nil
}

// UpdateProfile changes only the provided fields
func (s *userService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileDTO) (*dto.ProfileResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, lookupErr(err, ErrUserNotFound, "find user")
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, newValidationError("name", "must not be blank")
		}
		fields["name"] = name
	}
	if req.Bio != nil {
		fields["bio"] = strings.TrimSpace(*req.Bio)
	}
	if req.ProfilePicture != nil {
		fields["profile_picture"] = *req.ProfilePicture
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, fields); err != nil {
		return nil, lookupErr(err, ErrUserNotFound, "update profile")
	}
	s.logger.Info("profile_updated", "user_id", userID, "fields", len(fields))
	return s.Me(ctx, userID)
}

func (s *userService) MyBooks(ctx context.Context, userID string) ([]dto.ShelfItemResponse, error) {
	items, err := s.userRepo.Shelf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load shelf: %w", err)
	}
	out := make([]dto.ShelfItemResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.FromModelToShelfItem(&items[i]))
	}
	return out, nil
}

func (s *userService) SetBookStatus(ctx context.Context, userID string, bookID int64, status string) error {
	switch status {
	case models.ShelfWantToRead, models.ShelfReading, models.ShelfRead:
	default:
		return newValidationError("status", "must be one of want_to_read, reading, read")
	}
	ok, err := s.bookRepo.Exists(ctx, bookID)
	if err := mustExist(ok, err, ErrBookNotFound, "check book"); err != nil {
		return err
	}
	if err := s.userRepo.SetShelfStatus(ctx, userID, bookID, status); err != nil {
		return fmt.Errorf("set shelf status: %w", err)
	}
	s.logger.Info("shelf_updated", "user_id", userID, "book_id", bookID, "status", status)
	return nil
}

func (s *userService) RemoveBook(ctx context.Context, userID string, bookID int64) error {
	removed, err := s.userRepo.RemoveFromShelf(ctx, userID, bookID)
	if err != nil {
		return fmt.Errorf("remove from shelf: %w", err)
	}
	if !removed {
		return ErrBookNotOnShelf
	}
	return nil
}

func (s *userService) MyQuotes(ctx context.Context, userID string) ([]dto.QuoteResponse, error) {
	quotes, err := s.quoteRepo.LikedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load liked quotes: %w", err)
	}
	return dto.FromModelsToQuoteResponses(quotes), nil
}
