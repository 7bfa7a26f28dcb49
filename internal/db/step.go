package db

import "gorm.io/gorm"

// Step 菜谱步骤，(recipe_id, sort_order) 组合唯一，
// 并发插入冲突由存储层约束裁决。
type Step struct {
	gorm.Model
	RecipeID    uint   `gorm:"not null;uniqueIndex:idx_steps_recipe_order"`
	Description string `gorm:"not null"`
	SortOrder   int    `gorm:"column:sort_order;not null;uniqueIndex:idx_steps_recipe_order"`
	ImageURL    string
}
