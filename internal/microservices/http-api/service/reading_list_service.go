package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"bookrating/internal/microservices/http-api/dto"
	"bookrating/internal/microservices/http-api/models"
	"bookrating/internal/microservices/http-api/repository"
)

type ReadingListService interface {
	Create(ctx context.Context, userID string, req dto.CreateReadingListDTO) (*dto.ReadingListResponse, error)
	Get(ctx context.Context, viewerID string, id int64) (*dto.ReadingListResponse, error)
	ListMine(ctx context.Context, userID string, page int) (*dto.Paginated[dto.ReadingListResponse], error)
	ListPublicByUser(ctx context.Context, userID string, page int) (*dto.Paginated[dto.ReadingListResponse], error)
	ListFeatured(ctx context.Context, page int) (*dto.Paginated[dto.ReadingListResponse], error)
	Update(ctx context.Context, userID string, id int64, req dto.UpdateReadingListDTO) (*dto.ReadingListResponse, error)
	Delete(ctx context.Context, userID string, id int64) error
	AddBook(ctx context.Context, userID string, id, bookID int64) (*dto.ReadingListResponse, error)
	RemoveBook(ctx context.Context, userID string, id, bookID int64) (*dto.ReadingListResponse, error)
}

type readingListService struct {
	listRepo repository.ReadingListRepository
	bookRepo repository.BookRepository
	userRepo repository.UserRepository
	logger   *slog.Logger
}

func NewReadingListService(
	listRepo repository.ReadingListRepository,
	bookRepo repository.BookRepository,
	userRepo repository.UserRepository,
	logger *slog.Logger,
) ReadingListService {
	if logger == nil {
		logger = slog.Default()
	}
	return &readingListService{
		listRepo: listRepo,
		bookRepo: bookRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *readingListService) Create(ctx context.Context, userID string, req dto.CreateReadingListDTO) (*dto.ReadingListResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, newValidationError("name", "must not be blank")
	}
	list := &models.ReadingList{
		UserID:      userID,
		Name:        name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	}
	if err := s.listRepo.Create(ctx, list); err != nil {
		return nil, fmt.Errorf("create reading list: %w", err)
	}
	s.logger.Info("reading_list_created", "list_id", list.ID, "user_id", userID)
	resp := dto.FromModelToReadingListResponse(list)
	return &resp, nil
}

// Get hides private lists of other users behind a not-found
func (s *readingListService) Get(ctx context.Context, viewerID string, id int64) (*dto.ReadingListResponse, error) {
	list, err := s.listRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, ErrReadingListNotFound, "find reading list")
	}
	if !list.IsPublic && list.UserID != viewerID {
		return nil, ErrReadingListNotFound
	}
	resp := dto.FromModelToReadingListResponse(list)
	return &resp, nil
}

func (s *readingListService) ListMine(ctx context.Context, userID string, page int) (*dto.Paginated[dto.ReadingListResponse], error) {
	page = normalizePage(page)
	lists, total, err := s.listRepo.ListByUser(ctx, userID, false, page, ReadingListsPageSize)
	if err != nil {
		return nil, fmt.Errorf("list reading lists: %w", err)
	}
	return dto.NewPaginated(dto.FromModelsToReadingListResponses(lists), page, ReadingListsPageSize, total), nil
}

func (s *readingListService) ListPublicByUser(ctx context.Context, userID string, page int) (*dto.Paginated[dto.ReadingListResponse], error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, lookupErr(err, ErrUserNotFound, "find user")
	}
	page = normalizePage(page)
	lists, total, err := s.listRepo.ListByUser(ctx, userID, true, page, ReadingListsPageSize)
	if err != nil {
		return nil, fmt.Errorf("list reading lists: %w", err)
	}
	return dto.NewPaginated(dto.FromModelsToReadingListResponses(lists), page, ReadingListsPageSize, total), nil
}

func (s *readingListService) ListFeatured(ctx context.Context, page int) (*dto.Paginated[dto.ReadingListResponse], error) {
	page = normalizePage(page)
	lists, total, err := s.listRepo.ListFeatured(ctx, page, ReadingListsPageSize)
	if err != nil {
		return nil, fmt.Errorf("list featured reading lists: %w", err)
	}
	return dto.NewPaginated(dto.FromModelsToReadingListResponses(lists), page, ReadingListsPageSize, total), nil
}

// owned loads the list and checks ownership before any change
func (s *readingListService) owned(ctx context.Context, userID string, id int64) (*models.ReadingList, error) {
	list, err := s.listRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, ErrReadingListNotFound, "find reading list")
	}
	if list.UserID != userID {
		return nil, ErrNotOwner
	}
	return list, nil
}

func (s *readingListService) Update(ctx context.Context, userID string, id int64, req dto.UpdateReadingListDTO) (*dto.ReadingListResponse, error) {
	list, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, newValidationError("name", "must not be blank")
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.IsPublic != nil {
		fields["is_public"] = *req.IsPublic
	}

	if err := s.listRepo.Update(ctx, list, fields); err != nil {
		return nil, fmt.Errorf("update reading list: %w", err)
	}
	return s.reload(ctx, id)
}

func (s *readingListService) Delete(ctx context.Context, userID string, id int64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.listRepo.Delete(ctx, id); err != nil {
		return lookupErr(err, ErrReadingListNotFound, "delete reading list")
	}
	s.logger.Info("reading_list_deleted", "list_id", id, "user_id", userID)
	return nil
}

func (s *readingListService) AddBook(ctx context.Context, userID string, id, bookID int64) (*dto.ReadingListResponse, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	ok, err := s.bookRepo.Exists(ctx, bookID)
	if err := mustExist(ok, err, ErrBookNotFound, "check book"); err != nil {
		return nil, err
	}
	if err := s.listRepo.AddBook(ctx, id, bookID); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrBookAlreadyInList
		}
		return nil, fmt.Errorf("add book to list: %w", err)
	}
	return s.reload(ctx, id)
}

func (s *readingListService) RemoveBook(ctx context.Context, userID string, id, bookID int64) (*dto.ReadingListResponse, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	removed, err := s.listRepo.RemoveBook(ctx, id, bookID)
	if err != nil {
		return nil, fmt.Errorf("remove book from list: %w", err)
	}
	if !removed {
		return nil, ErrBookNotInList
	}
	return s.reload(ctx, id)
}

func (s *readingListService) reload(ctx context.Context, id int64) (*dto.ReadingListResponse, error) {
	list, err := s.listRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, ErrReadingListNotFound, "find reading list")
	}
	resp := dto.FromModelToReadingListResponse(list)
	return &resp, nil
}
