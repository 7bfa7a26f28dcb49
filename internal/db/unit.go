package db

import "gorm.io/gorm"

// Unit 计量单位，固定词汇表，全称与简称均唯一
type Unit struct {
	gorm.Model
	Full  string `gorm:"unique;not null"`
	Short string `gorm:"unique;not null"`
}
