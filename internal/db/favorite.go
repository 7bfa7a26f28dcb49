package db

import "gorm.io/gorm"

// Favorite 收藏记录，(user_id, recipe_id) 组合唯一
type Favorite struct {
	gorm.Model
	UserID   uint `gorm:"not null;uniqueIndex:idx_favorites_user_recipe"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_favorites_user_recipe"`
}
