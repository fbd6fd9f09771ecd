// Package admin is the back-office API. Every entity is described once by a
// Resource; one generic handler set serves list, detail and write endpoints
// for all of them from that metadata.
package admin

import (
	"sort"

	"bookrating/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type FieldType string

const (
	TypeString FieldType = "string"
	TypeText   FieldType = "text"
	TypeInt    FieldType = "int"
	TypeFloat  FieldType = "float"
	TypeBool   FieldType = "bool"
)

// Field is one column exposed to the back office. Name is both the JSON key
// and the column name. Rules is a go-playground/validator tag string.
type Field struct {
	Name       string    `json:"name"`
	Type       FieldType `json:"type"`
	Rules      string    `json:"rules,omitempty"`
	Nullable   bool      `json:"nullable,omitempty"`
	Searchable bool      `json:"searchable,omitempty"`
	Sortable   bool      `json:"sortable,omitempty"`
	Filterable bool      `json:"filterable,omitempty"`
	ReadOnly   bool      `json:"read_only,omitempty"`
	// Immutable fields are accepted on create only
	Immutable bool `json:"immutable,omitempty"`
	// References names the resource whose row must exist for this value
	References string `json:"references,omitempty"`

	ref func() any
}

// Relation is a many-to-many association written as a list of ids
type Relation struct {
	Field       string `json:"field"`
	Association string `json:"-"`
	Target      string `json:"target"`

	target func() any
}

type Resource struct {
	Name         string     `json:"name"`
	Fields       []Field    `json:"fields"`
	Relations    []Relation `json:"relations,omitempty"`
	Preloads     []string   `json:"-"`
	DefaultOrder string     `json:"default_order"`
	// join rows cleared when a record is deleted
	DeleteAssociations []string `json:"-"`

	model func() any
	// staleBooks lists the books whose cached payload a write to record changes
	staleBooks func(tx *gorm.DB, record any) ([]int64, error)
}

func (r *Resource) field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (r *Resource) relation(field string) (Relation, bool) {
	for _, rel := range r.Relations {
		if rel.Field == field {
			return rel, true
		}
	}
	return Relation{}, false
}

// Registry holds the resources by name
type Registry struct {
	resources map[string]*Resource
}

func NewRegistry(resources ...*Resource) *Registry {
	reg := &Registry{resources: make(map[string]*Resource, len(resources))}
	for _, r := range resources {
		reg.resources[r.Name] = r
	}
	return reg
}

func (reg *Registry) Get(name string) (*Resource, bool) {
	r, ok := reg.resources[name]
	return r, ok
}

// List returns the resources sorted by name
func (reg *Registry) List() []*Resource {
	out := make([]*Resource, 0, len(reg.resources))
	for _, r := range reg.resources {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func newBook() any        { return &models.Book{} }
func newAuthor() any      { return &models.Author{} }
func newCategory() any    { return &models.Category{} }
func newQuote() any       { return &models.Quote{} }
func newRating() any      { return &models.Rating{} }
func newReadingList() any { return &models.ReadingList{} }
func newUser() any        { return &models.User{} }
func newComment() any     { return &models.ReviewComment{} }

func bookItself(_ *gorm.DB, record any) ([]int64, error) {
	return []int64{record.(*models.Book).ID}, nil
}

func ratedBook(_ *gorm.DB, record any) ([]int64, error) {
	return []int64{record.(*models.Rating).BookID}, nil
}

func booksByAuthor(tx *gorm.DB, record any) ([]int64, error) {
	var ids []int64
	err := tx.Model(&models.Book{}).Where("author_id = ?", record.(*models.Author).ID).Pluck("id", &ids).Error
	return ids, err
}

func booksInCategory(tx *gorm.DB, record any) ([]int64, error) {
	var ids []int64
	err := tx.Table("book_categories").Where("category_id = ?", record.(*models.Category).ID).Pluck("book_id", &ids).Error
	return ids, err
}

// DefaultRegistry declares the catalogue and community resources
func DefaultRegistry() *Registry {
	return NewRegistry(
		&Resource{
			Name:       "books",
			model:      newBook,
			staleBooks: bookItself,
			Fields: []Field{
				{Name: "title", Type: TypeString, Rules: "required,max=255", Searchable: true, Sortable: true},
				{Name: "subtitle", Type: TypeString, Rules: "omitempty,max=255", Nullable: true},
				{Name: "description", Type: TypeText, Rules: "required"},
				{Name: "published_date", Type: TypeString, Rules: "required,max=32", Sortable: true},
				{Name: "number_of_pages", Type: TypeInt, Rules: "required,min=1", Sortable: true},
				{Name: "image", Type: TypeString, Rules: "required,max=2048"},
				{Name: "isbn10", Type: TypeString, Rules: "omitempty,len=10", Nullable: true, Searchable: true, Filterable: true},
				{Name: "isbn13", Type: TypeString, Rules: "omitempty,len=13", Nullable: true, Searchable: true, Filterable: true},
				{Name: "author_id", Type: TypeInt, Rules: "required,min=1", Filterable: true, References: "authors", ref: newAuthor},
				{Name: "rating", Type: TypeFloat, ReadOnly: true, Sortable: true},
				{Name: "ratings_count", Type: TypeInt, ReadOnly: true, Sortable: true},
			},
			Relations:          []Relation{{Field: "category_ids", Association: "Categories", Target: "categories", target: newCategory}},
			Preloads:           []string{"Author", "Categories"},
			DefaultOrder:       "created_at DESC",
			DeleteAssociations: []string{"Categories"},
		},
		&Resource{
			Name:       "authors",
			model:      newAuthor,
			staleBooks: booksByAuthor,
			Fields: []Field{
				{Name: "name", Type: TypeString, Rules: "required,max=255", Searchable: true, Sortable: true},
				{Name: "bio", Type: TypeText, Rules: "omitempty,max=10000", Nullable: true},
			},
			DefaultOrder: "name ASC",
		},
		&Resource{
			Name:       "categories",
			model:      newCategory,
			staleBooks: booksInCategory,
			Fields: []Field{
				{Name: "name", Type: TypeString, Rules: "required,max=100", Searchable: true, Sortable: true},
			},
			DefaultOrder:       "name ASC",
			DeleteAssociations: []string{"Books", "Quotes"},
		},
		&Resource{
			Name:  "quotes",
			model: newQuote,
			Fields: []Field{
				{Name: "text", Type: TypeText, Rules: "required,max=5000", Searchable: true},
				{Name: "author_id", Type: TypeInt, Rules: "required,min=1", Filterable: true, References: "authors", ref: newAuthor},
				{Name: "book_id", Type: TypeInt, Rules: "omitempty,min=1", Nullable: true, Filterable: true, References: "books", ref: newBook},
				{Name: "likes", Type: TypeInt, ReadOnly: true, Sortable: true},
			},
			Relations:          []Relation{{Field: "category_ids", Association: "Categories", Target: "categories", target: newCategory}},
			Preloads:           []string{"Author", "Categories"},
			DefaultOrder:       "created_at DESC",
			DeleteAssociations: []string{"Categories"},
		},
		&Resource{
			Name:       "ratings",
			model:      newRating,
			staleBooks: ratedBook,
			Fields: []Field{
				{Name: "user_id", Type: TypeString, Rules: "required,uuid", Immutable: true, Filterable: true, References: "users", ref: newUser},
				{Name: "book_id", Type: TypeInt, Rules: "required,min=1", Immutable: true, Filterable: true, References: "books", ref: newBook},
				{Name: "rating", Type: TypeInt, Rules: "required,min=1,max=10", Sortable: true, Filterable: true},
				{Name: "comment", Type: TypeText, Rules: "omitempty,min=10,max=5000", Nullable: true, Searchable: true},
				{Name: "likes", Type: TypeInt, ReadOnly: true, Sortable: true},
			},
			Preloads:     []string{"User", "Book"},
			DefaultOrder: "created_at DESC",
		},
		&Resource{
			Name:  "comments",
			model: newComment,
			Fields: []Field{
				{Name: "rating_id", Type: TypeInt, Rules: "required,min=1", Immutable: true, Filterable: true, References: "ratings", ref: newRating},
				{Name: "user_id", Type: TypeString, Rules: "required,uuid", Immutable: true, Filterable: true, References: "users", ref: newUser},
				{Name: "content", Type: TypeText, Rules: "required,max=5000", Searchable: true},
				{Name: "is_approved", Type: TypeBool, Filterable: true},
			},
			Preloads:     []string{"User"},
			DefaultOrder: "created_at DESC",
		},
		&Resource{
			Name:  "reading-lists",
			model: newReadingList,
			Fields: []Field{
				{Name: "user_id", Type: TypeString, Rules: "required,uuid", Immutable: true, Filterable: true, References: "users", ref: newUser},
				{Name: "name", Type: TypeString, Rules: "required,max=255", Searchable: true, Sortable: true},
				{Name: "description", Type: TypeText, Rules: "omitempty,max=5000", Nullable: true},
				{Name: "is_public", Type: TypeBool, Filterable: true},
				{Name: "is_featured", Type: TypeBool, Filterable: true},
			},
			Relations:          []Relation{{Field: "book_ids", Association: "Books", Target: "books", target: newBook}},
			Preloads:           []string{"Books"},
			DefaultOrder:       "updated_at DESC",
			DeleteAssociations: []string{"Books"},
		},
	)
}
