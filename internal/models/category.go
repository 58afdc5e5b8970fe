package models

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#ffffff"

// Category is a shared transaction category. Categories are not owned by a
// user; every authenticated user sees the same set.
type Category struct {
	Base
	Name      string `gorm:"size:100;not null" json:"name"`
	Icon      string `gorm:"size:50" json:"icon"`
	Color     string `gorm:"size:7;not null" json:"color"`
	IsExpense bool   `gorm:"not null" json:"is_expense"`
}
