package db

import "gorm.io/gorm"

// Ingredient 配料登记项，携带默认单位与允许单位集合。
// 默认单位不要求属于 AllowedUnits（与历史数据保持宽松一致）。
type Ingredient struct {
	gorm.Model
	Name         string  `gorm:"unique;not null"`
	ImageURL     string
	Quantity     float64 `gorm:"not null"`
	UnitID       uint    `gorm:"not null"`
	Unit         Unit
	AllowedUnits []Unit `gorm:"many2many:ingredient_allowed_units;"`
	Kcal         uint
	IsActive     bool `gorm:"default:true"`
}
