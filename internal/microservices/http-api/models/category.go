package models

type Category struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"unique;not null"`

	Books  []Book  `json:"books,omitempty" gorm:"many2many:book_categories;constraint:OnDelete:CASCADE;"`
	Quotes []Quote `json:"quotes,omitempty" gorm:"many2many:quote_categories;constraint:OnDelete:CASCADE;"`
}

func (Category) TableName() string {
	return "categories"
}

// CategoryLike marks a category as a favourite genre of a user.
type CategoryLike struct {
	UserID     string `gorm:"primaryKey;type:uuid" json:"user_id"`
	CategoryID int64  `gorm:"primaryKey;autoIncrement:false;index" json:"category_id"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (CategoryLike) TableName() string {
	return "category_user"
}
