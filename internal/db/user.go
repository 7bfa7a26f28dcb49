package db

import "gorm.io/gorm"

// User 定义了用户模型，Password 存储 bcrypt 哈希
type User struct {
	gorm.Model
	Username string `gorm:"not null"`
	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
	IsStaff  bool   `gorm:"default:false"`
}
