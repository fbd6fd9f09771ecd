package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrBookNotFound        = errors.New("book not found")
	ErrReviewNotFound      = errors.New("review not found")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrAuthorNotFound      = errors.New("author not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrQuoteNotFound       = errors.New("quote not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrReadingListNotFound = errors.New("reading list not found")
	ErrBookNotInList       = errors.New("book is not in this reading list")
	ErrBookNotOnShelf      = errors.New("book is not on your shelf")

	ErrNotOwner          = errors.New("you are not allowed to modify this resource")
	ErrCannotFollowSelf  = errors.New("you cannot follow yourself")
	ErrBookAlreadyInList = errors.New("book is already in this reading list")
)

// ValidationError carries per-field messages for input the service rejected
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// lookupErr maps a missing record to the given sentinel and wraps everything else
func lookupErr(err error, notFound error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// mustExist turns an Exists result into the sentinel when false
func mustExist(ok bool, err error, notFound error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return notFound
	}
	return nil
}
