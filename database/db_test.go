package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bookrating/internal/microservices/http-api/models"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("create user: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestOpenInMemory_MigratesSchema(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer Close(db)

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m), "missing table for %T", m)
	}
	assert.True(t, db.Migrator().HasTable("book_categories"))
	assert.True(t, db.Migrator().HasTable("reading_list_books"))
}

func TestOpenInMemory_DuplicateKeyIsTranslated(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, db.Create(&models.Category{Name: "Fantasy"}).Error)
	err = db.Create(&models.Category{Name: "Fantasy"}).Error
	assert.True(t, IsUniqueViolation(err))
}

func TestOpenInMemory_EnforcesForeignKeys(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer Close(db)

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)

	user := &models.User{Name: "Ana", Username: "ana", Email: "ana@example.com", Password: "hash"}
	require.NoError(t, db.Create(user).Error)
	err = db.Create(&models.Rating{UserID: user.ID, BookID: 404, Rating: 5}).Error
	assert.Error(t, err, "a rating must reference an existing book")
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_pragma=foreign_keys(1)", sqliteDSN(":memory:"))
	assert.Equal(t, "file:books.db?cache=shared&_pragma=foreign_keys(1)", sqliteDSN("file:books.db?cache=shared"))
}
