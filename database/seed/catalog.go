// Package seed loads a JSON catalogue of authors, books, categories and quotes into the database.
// Imports are idempotent: records are matched on their natural keys and updated in place.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"bookrating/internal/microservices/http-api/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Catalog mirrors the import file
type Catalog struct {
	Categories []string        `json:"categories" validate:"dive,required,max=100"`
	Authors    []CatalogAuthor `json:"authors" validate:"dive"`
}

type CatalogAuthor struct {
	Name   string         `json:"name" validate:"required,max=255"`
	Bio    *string        `json:"bio"`
	Books  []CatalogBook  `json:"books" validate:"dive"`
	Quotes []CatalogQuote `json:"quotes" validate:"dive"`
}

type CatalogBook struct {
	Title         string   `json:"title" validate:"required,max=255"`
	Subtitle      *string  `json:"subtitle"`
	Description   string   `json:"description"`
	PublishedDate string   `json:"published_date"`
	NumberOfPages int      `json:"number_of_pages" validate:"gte=0"`
	Image         string   `json:"image"`
	ISBN10        *string  `json:"isbn10" validate:"omitempty,len=10"`
	ISBN13        *string  `json:"isbn13" validate:"omitempty,len=13"`
	Categories    []string `json:"categories" validate:"dive,required"`
}

type CatalogQuote struct {
	Text       string   `json:"text" validate:"required"`
	Book       string   `json:"book"` // title of one of the author's books
	Categories []string `json:"categories" validate:"dive,required"`
}

// Summary counts the records touched by one import
type Summary struct {
	Authors    int
	Books      int
	Categories int
	Quotes     int
}

var validate = validator.New()

// ReadCatalog decodes and validates a catalogue file
func ReadCatalog(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return DecodeCatalog(file)
}

func DecodeCatalog(r io.Reader) (*Catalog, error) {
	var catalog Catalog
	if err := json.NewDecoder(r).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	if err := validate.Struct(&catalog); err != nil {
		return nil, fmt.Errorf("invalid catalogue: %w", err)
	}
	return &catalog, nil
}

// Importer writes a catalogue in a single transaction
type Importer struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewImporter(db *gorm.DB, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{db: db, logger: logger}
}

func (im *Importer) Import(ctx context.Context, catalog *Catalog) (*Summary, error) {
	summary := &Summary{}
	err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories := make(map[string]models.Category)
		for _, name := range catalog.Categories {
			if _, err := im.category(tx, categories, name); err != nil {
				return err
			}
		}

		for _, a := range catalog.Authors {
			author := models.Author{Name: strings.TrimSpace(a.Name)}
			query := tx.Where(models.Author{Name: author.Name})
			if a.Bio != nil {
				query = query.Assign(models.Author{Bio: a.Bio})
			}
			if err := query.FirstOrCreate(&author).Error; err != nil {
				return fmt.Errorf("import author %q: %w", a.Name, err)
			}
			summary.Authors++

			bookIDs := make(map[string]int64, len(a.Books))
			for _, b := range a.Books {
				book, err := im.book(tx, categories, author.ID, b)
				if err != nil {
					return err
				}
				bookIDs[strings.ToLower(book.Title)] = book.ID
				summary.Books++
			}

			for _, q := range a.Quotes {
				if err := im.quote(tx, categories, author.ID, bookIDs, q); err != nil {
					return err
				}
				summary.Quotes++
			}
			im.logger.Info("catalog_author_imported", "author", author.Name, "books", len(a.Books), "quotes", len(a.Quotes))
		}
		summary.Categories = len(categories)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// category resolves a category by name, creating it on first use
func (im *Importer) category(tx *gorm.DB, seen map[string]models.Category, name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if c, ok := seen[name]; ok {
		return c, nil
	}
	c := models.Category{Name: name}
	if err := tx.Where(models.Category{Name: name}).FirstOrCreate(&c).Error; err != nil {
		return c, fmt.Errorf("import category %q: %w", name, err)
	}
	seen[name] = c
	return c, nil
}

func (im *Importer) categories(tx *gorm.DB, seen map[string]models.Category, names []string) ([]models.Category, error) {
	out := make([]models.Category, 0, len(names))
	for _, name := range names {
		c, err := im.category(tx, seen, name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (im *Importer) book(tx *gorm.DB, seen map[string]models.Category, authorID int64, b CatalogBook) (*models.Book, error) {
	book := models.Book{Title: strings.TrimSpace(b.Title), AuthorID: authorID}
	err := tx.Where(models.Book{Title: book.Title, AuthorID: authorID}).
		Assign(models.Book{
			Subtitle:      b.Subtitle,
			Description:   b.Description,
			PublishedDate: b.PublishedDate,
			NumberOfPages: b.NumberOfPages,
			Image:         b.Image,
			ISBN10:        b.ISBN10,
			ISBN13:        b.ISBN13,
		}).
		FirstOrCreate(&book).Error
	if err != nil {
		return nil, fmt.Errorf("import book %q: %w", b.Title, err)
	}

	if len(b.Categories) > 0 {
		cats, err := im.categories(tx, seen, b.Categories)
		if err != nil {
			return nil, err
		}
		if err := tx.Model(&book).Association("Categories").Append(cats); err != nil {
			return nil, fmt.Errorf("link categories of %q: %w", b.Title, err)
		}
	}
	return &book, nil
}

func (im *Importer) quote(tx *gorm.DB, seen map[string]models.Category, authorID int64, bookIDs map[string]int64, q CatalogQuote) error {
	quote := models.Quote{Text: strings.TrimSpace(q.Text), AuthorID: authorID}
	query := tx.Where(models.Quote{Text: quote.Text, AuthorID: authorID})
	if q.Book != "" {
		id, ok := bookIDs[strings.ToLower(strings.TrimSpace(q.Book))]
		if !ok {
			return fmt.Errorf("quote %q references unknown book %q", q.Text, q.Book)
		}
		query = query.Assign(models.Quote{BookID: &id})
	}
	if err := query.FirstOrCreate(&quote).Error; err != nil {
		return fmt.Errorf("import quote: %w", err)
	}

	if len(q.Categories) > 0 {
		cats, err := im.categories(tx, seen, q.Categories)
		if err != nil {
			return err
		}
		if err := tx.Model(&quote).Association("Categories").Append(cats); err != nil {
			return fmt.Errorf("link quote categories: %w", err)
		}
	}
	return nil
}
