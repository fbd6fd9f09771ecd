package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bookrating/database"
	"bookrating/internal/microservices/http-api/models"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// repoSuite gives every test a fresh migrated in-memory database
type repoSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context
}

func (s *repoSuite) SetupTest() {
	db, err := database.OpenInMemory()
	s.Require().NoError(err)
	s.db = db
	s.ctx = context.Background()
}

func (s *repoSuite) TearDownTest() {
	s.Require().NoError(database.Close(s.db))
}

func (s *repoSuite) user(username string) *models.User {
	u := &models.User{
		Name:     username,
		Username: username,
		Email:    username + "@example.com",
		Password: "hash",
	}
	s.Require().NoError(s.db.Create(u).Error)
	return u
}

func (s *repoSuite) author(name string) *models.Author {
	a := &models.Author{Name: name}
	s.Require().NoError(s.db.Create(a).Error)
	return a
}

func (s *repoSuite) book(title string, author *models.Author) *models.Book {
	b := &models.Book{
		Title:         title,
		Description:   "description of " + title,
		PublishedDate: "2001-01-01",
		NumberOfPages: 100,
		Image:         "https://img.example.com/" + title,
		AuthorID:      author.ID,
	}
	s.Require().NoError(s.db.Create(b).Error)
	return b
}

func (s *repoSuite) rating(user *models.User, book *models.Book, score int, comment *string) *models.Rating {
	r := &models.Rating{UserID: user.ID, BookID: book.ID, Rating: score, Comment: comment}
	s.Require().NoError(s.db.Create(r).Error)
	return r
}

func (s *repoSuite) reload(book *models.Book) *models.Book {
	var fresh models.Book
	s.Require().NoError(s.db.First(&fresh, book.ID).Error)
	return &fresh
}

func strPtr(v string) *string { return &v }

func TestRepositories(t *testing.T) {
	suite.Run(t, new(repoSuite))
}

func TestContainsPattern(t *testing.T) {
	cases := map[string]string{
		"Dune":    "%dune%",
		"100%":    `%100\%%`,
		"a_b":     `%a\_b%`,
		`back\sl`: `%back\\sl%`,
	}
	for in, want := range cases {
		require.Equal(t, want, ContainsPattern(in), fmt.Sprintf("pattern for %q", in))
	}
}

func TestPaginate(t *testing.T) {
	limit, offset := paginate(3, 10)
	require.Equal(t, 10, limit)
	require.Equal(t, 20, offset)

	_, offset = paginate(0, 10)
	require.Equal(t, 0, offset)
}

func (s *repoSuite) TestBookCountersFollowRatingHooks() {
	repo := NewReviewRepository(s.db)
	alice, bob := s.user("alice"), s.user("bob")
	book := s.book("Dune", s.author("Frank Herbert"))

	first := &models.Rating{UserID: alice.ID, BookID: book.ID, Rating: 8}
	s.Require().NoError(repo.Create(s.ctx, first))
	s.Require().NoError(repo.Create(s.ctx, &models.Rating{UserID: bob.ID, BookID: book.ID, Rating: 4}))

	var rows int64
	s.Require().NoError(s.db.Model(&models.Rating{}).Count(&rows).Error)
	s.Equal(int64(2), rows)

	fresh := s.reload(book)
	s.Equal(int64(2), fresh.RatingsCount)
	s.InDelta(6.0, fresh.Rating, 0.001)

	s.Require().NoError(repo.Update(s.ctx, first, map[string]any{"rating": 10}))
	s.InDelta(7.0, s.reload(book).Rating, 0.001)

	s.Require().NoError(repo.Delete(s.ctx, first))
	fresh = s.reload(book)
	s.Equal(int64(1), fresh.RatingsCount)
	s.InDelta(4.0, fresh.Rating, 0.001)
}

func (s *repoSuite) TestReviewToggleLikeIsReversible() {
	repo := NewReviewRepository(s.db)
	alice, bob := s.user("alice"), s.user("bob")
	review := s.rating(alice, s.book("Emma", s.author("Jane Austen")), 7, nil)

	liked, likes, err := repo.ToggleLike(s.ctx, bob.ID, review.ID)
	s.Require().NoError(err)
	s.True(liked)
	s.Equal(int64(1), likes)

	liked, likes, err = repo.ToggleLike(s.ctx, bob.ID, review.ID)
	s.Require().NoError(err)
	s.False(liked)
	s.Equal(int64(0), likes)

	var edges int64
	s.Require().NoError(s.db.Model(&models.RatingLike{}).Count(&edges).Error)
	s.Zero(edges)
}

func (s *repoSuite) TestReviewLikeCounterMatchesEdges() {
	repo := NewReviewRepository(s.db)
	author := s.user("author")
	review := s.rating(author, s.book("Emma", s.author("Jane Austen")), 7, nil)

	for i := 0; i < 5; i++ {
		u := s.user(fmt.Sprintf("fan%d", i))
		_, _, err := repo.ToggleLike(s.ctx, u.ID, review.ID)
		s.Require().NoError(err)
		if i%2 == 0 {
			_, _, err = repo.ToggleLike(s.ctx, u.ID, review.ID)
			s.Require().NoError(err)
		}
	}

	var edges int64
	s.Require().NoError(s.db.Model(&models.RatingLike{}).Where("rating_id = ?", review.ID).Count(&edges).Error)
	found, err := repo.FindByID(s.ctx, review.ID)
	s.Require().NoError(err)
	s.Equal(edges, found.Likes)
	s.Equal(int64(2), found.Likes)
}

func (s *repoSuite) TestDeletingReviewRemovesLikes() {
	repo := NewReviewRepository(s.db)
	alice, bob := s.user("alice"), s.user("bob")
	review := s.rating(alice, s.book("Emma", s.author("Jane Austen")), 7, nil)

	_, _, err := repo.ToggleLike(s.ctx, bob.ID, review.ID)
	s.Require().NoError(err)
	s.Require().NoError(repo.Delete(s.ctx, review))

	var edges int64
	s.Require().NoError(s.db.Model(&models.RatingLike{}).Count(&edges).Error)
	s.Zero(edges)
}

func (s *repoSuite) TestListByBookNewestFirstAndCommentCount() {
	repo := NewReviewRepository(s.db)
	alice := s.user("alice")
	book := s.book("Dune", s.author("Frank Herbert"))
	other := s.book("Emma", s.author("Jane Austen"))

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		r := &models.Rating{UserID: alice.ID, BookID: book.ID, Rating: 5, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if i%3 == 0 {
			r.Comment = strPtr("a thoughtful comment")
		}
		s.Require().NoError(repo.Create(s.ctx, r))
	}
	s.rating(alice, other, 9, strPtr("not about dune at all"))

	page1, total, err := repo.ListByBook(s.ctx, book.ID, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(12), total)
	s.Len(page1, 10)
	for i := 1; i < len(page1); i++ {
		s.False(page1[i].CreatedAt.After(page1[i-1].CreatedAt))
	}
	s.NotNil(page1[0].User)

	page2, _, err := repo.ListByBook(s.ctx, book.ID, 2, 10)
	s.Require().NoError(err)
	s.Len(page2, 2)

	commented, err := repo.CountCommented(s.ctx, book.ID)
	s.Require().NoError(err)
	s.Equal(int64(4), commented)
}

func (s *repoSuite) TestLikedIDs() {
	repo := NewReviewRepository(s.db)
	alice, bob := s.user("alice"), s.user("bob")
	book := s.book("Dune", s.author("Frank Herbert"))
	r1, r2 := s.rating(alice, book, 5, nil), s.rating(alice, book, 6, nil)

	_, _, err := repo.ToggleLike(s.ctx, bob.ID, r2.ID)
	s.Require().NoError(err)

	liked, err := repo.LikedIDs(s.ctx, bob.ID, []int64{r1.ID, r2.ID})
	s.Require().NoError(err)
	s.False(liked[r1.ID])
	s.True(liked[r2.ID])

	liked, err = repo.LikedIDs(s.ctx, "", []int64{r1.ID})
	s.Require().NoError(err)
	s.Empty(liked)
}

func (s *repoSuite) TestBookSearchMatchesTitleOrAuthorLiterally() {
	repo := NewBookRepository(s.db)
	herbert := s.author("Frank Herbert")
	austen := s.author("Jane Austen")
	s.book("Dune", herbert)
	s.book("Dune Messiah", herbert)
	s.book("Emma", austen)
	s.book("100% Cotton", austen)
	s.book("1000 Cotton", austen)
	s.book("snake_case", austen)
	s.book("snakeXcase", austen)

	books, err := repo.Search(s.ctx, "DUNE", 20)
	s.Require().NoError(err)
	s.Len(books, 2)

	books, err = repo.Search(s.ctx, "austen", 20)
	s.Require().NoError(err)
	s.Len(books, 5)
	s.NotNil(books[0].Author)

	books, err = repo.Search(s.ctx, "0%", 20)
	s.Require().NoError(err)
	s.Require().Len(books, 1)
	s.Equal("100% Cotton", books[0].Title)

	books, err = repo.Search(s.ctx, "e_c", 20)
	s.Require().NoError(err)
	s.Require().Len(books, 1)
	s.Equal("snake_case", books[0].Title)

	books, err = repo.Search(s.ctx, "e", 3)
	s.Require().NoError(err)
	s.Len(books, 3)
}

func (s *repoSuite) TestTopRatedRanksByCountWithIDTieBreak() {
	repo := NewBookRepository(s.db)
	a := s.author("Someone")
	u := s.user("alice")
	books := make([]*models.Book, 8)
	for i := range books {
		books[i] = s.book(fmt.Sprintf("Book %d", i), a)
	}
	counts := []int{1, 3, 3, 0, 2, 5, 1, 1}
	for i, n := range counts {
		for j := 0; j < n; j++ {
			s.rating(u, books[i], 5, nil)
		}
	}

	rows, err := repo.TopRated(s.ctx, 6)
	s.Require().NoError(err)
	s.Require().Len(rows, 6)

	var ids []int64
	for _, r := range rows {
		ids = append(ids, r.BookID)
	}
	s.Equal([]int64{books[5].ID, books[1].ID, books[2].ID, books[4].ID, books[0].ID, books[6].ID}, ids)
	s.Equal(int64(5), rows[0].Count)
	for i := 1; i < len(rows); i++ {
		s.LessOrEqual(rows[i].Count, rows[i-1].Count)
	}
}

func (s *repoSuite) TestListByCategory() {
	repo := NewBookRepository(s.db)
	a := s.author("Someone")
	scifi := &models.Category{Name: "Science Fiction"}
	s.Require().NoError(s.db.Create(scifi).Error)

	in := s.book("Dune", a)
	s.book("Emma", a)
	s.Require().NoError(s.db.Model(in).Association("Categories").Append(scifi))

	books, total, err := repo.ListByCategory(s.ctx, scifi.ID, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(books, 1)
	s.Equal(in.ID, books[0].ID)
}

func (s *repoSuite) TestAuthorSearchAndFollowToggle() {
	repo := NewAuthorRepository(s.db)
	austen := s.author("Jane Austen")
	s.author("Frank Herbert")
	s.author("Janet Frame")
	s.book("Emma", austen)
	u := s.user("alice")

	authors, err := repo.Search(s.ctx, "JAN")
	s.Require().NoError(err)
	s.Require().Len(authors, 2)
	s.Equal("Jane Austen", authors[0].Name)
	s.Len(authors[0].Books, 1)

	following, err := repo.ToggleFollow(s.ctx, u.ID, austen.ID)
	s.Require().NoError(err)
	s.True(following)
	is, err := repo.IsFollowing(s.ctx, u.ID, austen.ID)
	s.Require().NoError(err)
	s.True(is)

	following, err = repo.ToggleFollow(s.ctx, u.ID, austen.ID)
	s.Require().NoError(err)
	s.False(following)
	is, err = repo.IsFollowing(s.ctx, u.ID, austen.ID)
	s.Require().NoError(err)
	s.False(is)
}

func (s *repoSuite) TestFollowGraphDirections() {
	repo := NewUserRepository(s.db)
	alice, bob, carol := s.user("alice"), s.user("bob"), s.user("carol")

	for _, follower := range []*models.User{bob, carol} {
		ok, err := repo.ToggleFollow(s.ctx, follower.ID, alice.ID)
		s.Require().NoError(err)
		s.True(ok)
	}
	_, err := repo.ToggleFollow(s.ctx, alice.ID, bob.ID)
	s.Require().NoError(err)

	followers, total, err := repo.Followers(s.ctx, alice.ID, 1, 20)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.ElementsMatch([]string{bob.ID, carol.ID}, []string{followers[0].ID, followers[1].ID})

	following, total, err := repo.Following(s.ctx, alice.ID, 1, 20)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal(bob.ID, following[0].ID)

	stats, err := repo.Stats(s.ctx, []string{alice.ID, carol.ID})
	s.Require().NoError(err)
	s.Equal(int64(2), stats[alice.ID].Followers)
	s.Equal(int64(1), stats[alice.ID].Following)
	s.Equal(int64(1), stats[carol.ID].Following)

	followed, err := repo.FollowedAmong(s.ctx, bob.ID, []string{alice.ID, carol.ID})
	s.Require().NoError(err)
	s.True(followed[alice.ID])
	s.False(followed[carol.ID])
}

func (s *repoSuite) TestShelfUpsert() {
	repo := NewUserRepository(s.db)
	u := s.user("alice")
	book := s.book("Dune", s.author("Frank Herbert"))

	s.Require().NoError(repo.SetShelfStatus(s.ctx, u.ID, book.ID, models.ShelfWantToRead))
	s.Require().NoError(repo.SetShelfStatus(s.ctx, u.ID, book.ID, models.ShelfReading))

	shelf, err := repo.Shelf(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Require().Len(shelf, 1)
	s.Equal(models.ShelfReading, shelf[0].Status)
	s.Require().NotNil(shelf[0].Book)
	s.NotNil(shelf[0].Book.Author)

	removed, err := repo.RemoveFromShelf(s.ctx, u.ID, book.ID)
	s.Require().NoError(err)
	s.True(removed)
	removed, err = repo.RemoveFromShelf(s.ctx, u.ID, book.ID)
	s.Require().NoError(err)
	s.False(removed)
}

func (s *repoSuite) TestQuoteLikeToggle() {
	repo := NewQuoteRepository(s.db)
	a := s.author("Oscar Wilde")
	q := &models.Quote{Text: "Be yourself; everyone else is already taken.", AuthorID: a.ID}
	s.Require().NoError(s.db.Create(q).Error)
	u := s.user("alice")

	liked, likes, err := repo.ToggleLike(s.ctx, u.ID, q.ID)
	s.Require().NoError(err)
	s.True(liked)
	s.Equal(int64(1), likes)

	mine, err := repo.LikedByUser(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.NotNil(mine[0].Author)

	liked, likes, err = repo.ToggleLike(s.ctx, u.ID, q.ID)
	s.Require().NoError(err)
	s.False(liked)
	s.Equal(int64(0), likes)

	found, err := repo.Search(s.ctx, "EVERYONE", 20)
	s.Require().NoError(err)
	s.Len(found, 1)
}

func (s *repoSuite) TestCategoryLikeToggle() {
	repo := NewCategoryRepository(s.db)
	c := &models.Category{Name: "Poetry"}
	s.Require().NoError(s.db.Create(c).Error)
	u := s.user("alice")

	liked, err := repo.ToggleLike(s.ctx, u.ID, c.ID)
	s.Require().NoError(err)
	s.True(liked)
	liked, err = repo.ToggleLike(s.ctx, u.ID, c.ID)
	s.Require().NoError(err)
	s.False(liked)
}

func (s *repoSuite) TestReadingListBooks() {
	repo := NewReadingListRepository(s.db)
	u := s.user("alice")
	book := s.book("Dune", s.author("Frank Herbert"))
	list := &models.ReadingList{UserID: u.ID, Name: "Summer", IsPublic: true}
	s.Require().NoError(repo.Create(s.ctx, list))

	s.Require().NoError(repo.AddBook(s.ctx, list.ID, book.ID))
	s.ErrorIs(repo.AddBook(s.ctx, list.ID, book.ID), ErrAlreadyExists)

	found, err := repo.FindByID(s.ctx, list.ID)
	s.Require().NoError(err)
	s.Require().Len(found.Books, 1)
	s.NotNil(found.Books[0].Author)

	removed, err := repo.RemoveBook(s.ctx, list.ID, book.ID)
	s.Require().NoError(err)
	s.True(removed)

	s.Require().NoError(repo.Delete(s.ctx, list.ID))
	s.ErrorIs(repo.Delete(s.ctx, list.ID), gorm.ErrRecordNotFound)
}

func (s *repoSuite) TestFeaturedListsArePublicOnly() {
	repo := NewReadingListRepository(s.db)
	u := s.user("alice")
	s.Require().NoError(repo.Create(s.ctx, &models.ReadingList{UserID: u.ID, Name: "shown", IsPublic: true, IsFeatured: true}))
	s.Require().NoError(repo.Create(s.ctx, &models.ReadingList{UserID: u.ID, Name: "private", IsPublic: false, IsFeatured: true}))
	s.Require().NoError(repo.Create(s.ctx, &models.ReadingList{UserID: u.ID, Name: "plain", IsPublic: true}))

	lists, total, err := repo.ListFeatured(s.ctx, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("shown", lists[0].Name)

	public, total, err := repo.ListByUser(s.ctx, u.ID, true, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(public, 2)
}

func (s *repoSuite) TestRefreshTokenRevokeOnce() {
	repo := NewRefreshTokenRepository(s.db)
	u := s.user("alice")
	tok := &models.RefreshToken{ID: "t1", UserID: u.ID, Token: "secret", ExpiresAt: time.Now().Add(time.Hour)}
	s.Require().NoError(repo.Create(s.ctx, tok))

	ok, err := repo.Revoke(s.ctx, tok.ID)
	s.Require().NoError(err)
	s.True(ok)
	ok, err = repo.Revoke(s.ctx, tok.ID)
	s.Require().NoError(err)
	s.False(ok)

	n, err := repo.DeleteExpired(s.ctx, time.Now())
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func (s *repoSuite) TestNilBookCacheIsNoop() {
	var cache *BookCache
	var dest []int
	hit, err := cache.GetTrending(s.ctx, &dest)
	s.NoError(err)
	s.False(hit)
	s.NoError(cache.SetTrending(s.ctx, []int{1}))
	s.NoError(cache.InvalidateBook(s.ctx, 1))
	s.NoError(cache.Close())
}
