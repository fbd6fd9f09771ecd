package models

// All lists every model managed by AutoMigrate, in dependency order.
func All() []any {
	return []any{
		&User{},
		&RefreshToken{},
		&UserFollow{},
		&Author{},
		&AuthorFollow{},
		&Category{},
		&CategoryLike{},
		&Book{},
		&UserBook{},
		&Quote{},
		&QuoteLike{},
		&Rating{},
		&RatingLike{},
		&ReviewComment{},
		&ReadingList{},
	}
}
