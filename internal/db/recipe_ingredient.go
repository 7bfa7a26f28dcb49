package db

import "gorm.io/gorm"

// RecipeIngredient 菜谱与配料的关联行，同一配料在一个菜谱中至多出现一次。
// Unit 存放单位简称快照，写入时校验其属于配料的允许单位集合。
type RecipeIngredient struct {
	gorm.Model
	RecipeID     uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	Ingredient   Ingredient
	Quantity     float64 `gorm:"not null"`
	Unit         string  `gorm:"not null"`
}
