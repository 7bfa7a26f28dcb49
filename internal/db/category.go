package db

import "gorm.io/gorm"

// Category 定义了菜谱分类模型
type Category struct {
	gorm.Model
	Name    string   `gorm:"unique;not null"`
	Recipes []Recipe `gorm:"many2many:recipe_categories;"`
}
