package db

import "gorm.io/gorm"

// Rating 用户对菜谱的评分，(user_id, recipe_id) 组合唯一，重复评分走更新
type Rating struct {
	gorm.Model
	UserID   uint `gorm:"not null;uniqueIndex:idx_ratings_user_recipe"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_ratings_user_recipe"`
	Stars    int  `gorm:"not null"`
}
