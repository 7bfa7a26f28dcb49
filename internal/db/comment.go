package db

import "gorm.io/gorm"

// Comment 菜谱评论，CreatedAt/UpdatedAt 即发表与修改时间
type Comment struct {
	gorm.Model
	UserID   uint   `gorm:"not null;index:idx_comments_user_recipe"`
	RecipeID uint   `gorm:"not null;index:idx_comments_user_recipe"`
	Content  string `gorm:"not null"`
	IsActive bool   `gorm:"default:true"`
}
