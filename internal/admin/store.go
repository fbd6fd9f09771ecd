package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"bookrating/internal/microservices/http-api/models"
	"bookrating/internal/microservices/http-api/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const PageSize = 20

var ErrNotFound = errors.New("record not found")

type ListParams struct {
	Page    int
	Search  string
	Sort    string
	Filters map[string]string
}

// Store runs the metadata-driven queries. Writes that change a book's public
// payload drop its cache entries once the transaction has committed.
type Store struct {
	db     *gorm.DB
	cache  *repository.BookCache
	logger *slog.Logger
}

func NewStore(db *gorm.DB, cache *repository.BookCache, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, cache: cache, logger: logger}
}

func (s *Store) staleBooks(tx *gorm.DB, r *Resource, record any) ([]int64, error) {
	if r.staleBooks == nil || s.cache == nil {
		return nil, nil
	}
	ids, err := r.staleBooks(tx, record)
	if err != nil {
		return nil, fmt.Errorf("collect cached books of %s: %w", r.Name, err)
	}
	return ids, nil
}

func (s *Store) invalidate(ctx context.Context, r *Resource, ids []int64) {
	if len(ids) == 0 {
		return
	}
	if err := s.cache.InvalidateBooks(ctx, ids...); err != nil {
		s.logger.Warn("cache_invalidate_failed", "resource", r.Name, "book_ids", ids, "error", err)
	}
}

func newSlice(r *Resource) reflect.Value {
	elem := reflect.TypeOf(r.model()).Elem()
	return reflect.New(reflect.SliceOf(elem))
}

func (s *Store) List(ctx context.Context, r *Resource, p ListParams) (any, int64, error) {
	var conds []func(*gorm.DB) *gorm.DB

	if q := strings.TrimSpace(p.Search); q != "" {
		var parts []string
		var args []any
		pattern := repository.ContainsPattern(q)
		for _, f := range r.Fields {
			if f.Searchable {
				parts = append(parts, "LOWER("+f.Name+")"+repository.LikeClause)
				args = append(args, pattern)
			}
		}
		if len(parts) > 0 {
			where := "(" + strings.Join(parts, " OR ") + ")"
			conds = append(conds, func(db *gorm.DB) *gorm.DB { return db.Where(where, args...) })
		}
	}

	errs := FieldErrors{}
	for name, raw := range p.Filters {
		f, ok := r.field(name)
		if !ok || !f.Filterable {
			errs["filter["+name+"]"] = "is not filterable"
			continue
		}
		value, err := parseFilter(f.Type, raw)
		if err != nil {
			errs["filter["+name+"]"] = err.Error()
			continue
		}
		column := f.Name
		conds = append(conds, func(db *gorm.DB) *gorm.DB { return db.Where(column+" = ?", value) })
	}

	order := r.DefaultOrder
	if p.Sort != "" {
		name, dir := p.Sort, "ASC"
		if strings.HasPrefix(name, "-") {
			name, dir = name[1:], "DESC"
		}
		if f, ok := r.field(name); ok && f.Sortable {
			order = f.Name + " " + dir
		} else {
			errs["sort"] = "is not a sortable field"
		}
	}
	if len(errs) > 0 {
		return nil, 0, errs
	}

	base := s.db.WithContext(ctx).Model(r.model()).Scopes(conds...)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.Name, err)
	}

	page := p.Page
	if page < 1 {
		page = 1
	}
	rows := newSlice(r)
	q := base.Session(&gorm.Session{}).Order(order + ", id DESC").Limit(PageSize).Offset((page - 1) * PageSize)
	for _, preload := range r.Preloads {
		q = q.Preload(preload)
	}
	if err := q.Find(rows.Interface()).Error; err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.Name, err)
	}
	return rows.Elem().Interface(), total, nil
}

func (s *Store) Get(ctx context.Context, r *Resource, id int64) (any, error) {
	return s.find(s.db.WithContext(ctx), r, id, true)
}

func (s *Store) find(tx *gorm.DB, r *Resource, id int64, preload bool) (any, error) {
	record := r.model()
	if preload {
		for _, p := range r.Preloads {
			tx = tx.Preload(p)
		}
	}
	if err := tx.First(record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find %s %d: %w", r.Name, id, err)
	}
	return record, nil
}

func (s *Store) Create(ctx context.Context, r *Resource, p *payload) (any, error) {
	var id int64
	var stale []int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, r, p); err != nil {
			return err
		}
		record := r.model()
		raw, err := json.Marshal(p.columns)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, record); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(record).Error; err != nil {
			return fmt.Errorf("create %s: %w", r.Name, err)
		}
		if err := replaceRelations(tx, r, record, p); err != nil {
			return err
		}
		id = reflect.ValueOf(record).Elem().FieldByName("ID").Int()
		stale, err = s.staleBooks(tx, r, record)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, r, stale)
	return s.Get(ctx, r, id)
}

func (s *Store) Update(ctx context.Context, r *Resource, id int64, p *payload) (any, error) {
	var stale []int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.find(tx, r, id, false)
		if err != nil {
			return err
		}
		if err := checkReferences(tx, r, p); err != nil {
			return err
		}
		if len(p.columns) > 0 {
			if err := tx.Model(record).Omit(clause.Associations).Updates(p.columns).Error; err != nil {
				return fmt.Errorf("update %s %d: %w", r.Name, id, err)
			}
		}
		if err := replaceRelations(tx, r, record, p); err != nil {
			return err
		}
		stale, err = s.staleBooks(tx, r, record)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, r, stale)
	return s.Get(ctx, r, id)
}

func (s *Store) Delete(ctx context.Context, r *Resource, id int64) error {
	var stale []int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.find(tx, r, id, false)
		if err != nil {
			return err
		}
		// collected before the cascade removes the rows that name them
		if stale, err = s.staleBooks(tx, r, record); err != nil {
			return err
		}
		if len(r.DeleteAssociations) > 0 {
			tx = tx.Select(r.DeleteAssociations)
		}
		if err := tx.Delete(record).Error; err != nil {
			return fmt.Errorf("delete %s %d: %w", r.Name, id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, r, stale)
	return nil
}

func checkReferences(tx *gorm.DB, r *Resource, p *payload) error {
	errs := FieldErrors{}
	for name, value := range p.columns {
		f, _ := r.field(name)
		if f.ref == nil || value == nil {
			continue
		}
		var n int64
		if err := tx.Model(f.ref()).Where("id = ?", value).Count(&n).Error; err != nil {
			return fmt.Errorf("check %s: %w", name, err)
		}
		if n == 0 {
			errs[name] = "does not exist"
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func replaceRelations(tx *gorm.DB, r *Resource, record any, p *payload) error {
	for field, ids := range p.relations {
		rel, _ := r.relation(field)
		assoc := tx.Model(record).Association(rel.Association)
		if len(ids) == 0 {
			if err := assoc.Clear(); err != nil {
				return fmt.Errorf("clear %s: %w", field, err)
			}
			continue
		}
		targets := reflect.New(reflect.SliceOf(reflect.TypeOf(rel.target()).Elem()))
		if err := tx.Find(targets.Interface(), ids).Error; err != nil {
			return fmt.Errorf("load %s: %w", field, err)
		}
		if targets.Elem().Len() != len(ids) {
			return FieldErrors{field: "contains unknown ids"}
		}
		if err := assoc.Replace(targets.Elem().Interface()); err != nil {
			return fmt.Errorf("replace %s: %w", field, err)
		}
	}
	return nil
}

type TopRatedBook struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Rating       float64 `json:"rating"`
	RatingsCount int64   `json:"ratings_count"`
}

type RatingStats struct {
	TotalRatings  int64         `json:"total_ratings"`
	AverageRating float64       `json:"average_rating"`
	TopRatedBook  *TopRatedBook `json:"top_rated_book"`
}

type ratingAggregate struct {
	Total   int64
	Average float64
}

// MinRatingsForTop keeps books with a handful of ratings off the top spot
const MinRatingsForTop = 5

func (s *Store) RatingStats(ctx context.Context) (*RatingStats, error) {
	db := s.db.WithContext(ctx)

	var agg ratingAggregate
	if err := db.Model(&models.Rating{}).
		Select("COUNT(*) AS total, COALESCE(AVG(rating), 0) AS average").
		Scan(&agg).Error; err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}

	stats := &RatingStats{TotalRatings: agg.Total, AverageRating: agg.Average}

	var books []models.Book
	if err := db.Where("ratings_count >= ?", MinRatingsForTop).
		Order("rating DESC, ratings_count DESC, id ASC").
		Limit(1).
		Find(&books).Error; err != nil {
		return nil, fmt.Errorf("top rated book: %w", err)
	}
	if len(books) == 1 {
		b := books[0]
		stats.TopRatedBook = &TopRatedBook{ID: b.ID, Title: b.Title, Rating: b.Rating, RatingsCount: b.RatingsCount}
	}
	return stats, nil
}

// ApproveComments sets is_approved on the given review comments
func (s *Store) ApproveComments(ctx context.Context, ids []int64, approved bool) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.ReviewComment{}).
		Where("id IN ?", ids).
		Update("is_approved", approved)
	if res.Error != nil {
		return 0, fmt.Errorf("approve comments: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// FeatureReadingLists sets is_featured on the given lists and returns how many matched
func (s *Store) FeatureReadingLists(ctx context.Context, ids []int64, featured bool) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.ReadingList{}).
		Where("id IN ?", ids).
		Update("is_featured", featured)
	if res.Error != nil {
		return 0, fmt.Errorf("feature reading lists: %w", res.Error)
	}
	return res.RowsAffected, nil
}
