package service

// Fixed page sizes per endpoint family
const (
	ReviewsPageSize      = 10
	BooksPageSize        = 10
	QuotesPageSize       = 10
	ReadingListsPageSize = 10
	AuthorsPageSize      = 12
	FollowsPageSize      = 20
	CommentsPageSize     = 20

	SearchLimit     = 20
	TrendingLimit   = 6
	SuggestionLimit = 6
)

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
