package db

import (
	"time"

	"gorm.io/gorm"
)

// Recipe 定义了菜谱模型，是步骤与配料关联的聚合根。
// UserID 可为空：删除用户时菜谱保留，归属置空。
type Recipe struct {
	gorm.Model
	UserID              *uint
	User                *User
	Title               string `gorm:"unique;not null"`
	Description         string
	ImageURL            string
	PreparationTime     float64
	PreparationTimeUnit string `gorm:"size:1;not null"`
	Level               int    `gorm:"default:2"`
	DateAdded           time.Time
	Categories          []Category         `gorm:"many2many:recipe_categories;"`
	Steps               []Step             `gorm:"constraint:OnDelete:CASCADE;"`
	Ingredients         []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE;"`
	Comments            []Comment          `gorm:"constraint:OnDelete:CASCADE;"`
}

// 厨艺等级取值
const (
	LevelNovice = iota
	LevelBeginner
	LevelCompetent
	LevelProficient
	LevelExpert
)

var levelNames = map[int]string{
	LevelNovice:     "novice",
	LevelBeginner:   "beginner",
	LevelCompetent:  "competent",
	LevelProficient: "proficient",
	LevelExpert:     "expert",
}

// LevelName 返回等级的展示名，未知值回退为 competent。
func LevelName(level int) string {
	if name, ok := levelNames[level]; ok {
		return name
	}
	return levelNames[LevelCompetent]
}

// ParseLevel 接受展示名或数字编码，返回等级值。
func ParseLevel(value string) (int, bool) {
	for key, name := range levelNames {
		if name == value {
			return key, true
		}
	}
	switch value {
	case "0", "1", "2", "3", "4":
		return int(value[0] - '0'), true
	}
	return 0, false
}

var prepTimeUnitNames = map[string]string{
	"s": "seconds",
	"m": "minutes",
	"h": "hours",
	"d": "days",
}

// PrepTimeUnitName 返回制备时长单位的展示名。
func PrepTimeUnitName(code string) string {
	if name, ok := prepTimeUnitNames[code]; ok {
		return name
	}
	return code
}

// ParsePrepTimeUnit 接受展示名或单字母编码。
func ParsePrepTimeUnit(value string) (string, bool) {
	if _, ok := prepTimeUnitNames[value]; ok {
		return value, true
	}
	for code, name := range prepTimeUnitNames {
		if name == value {
			return code, true
		}
	}
	return "", false
}
