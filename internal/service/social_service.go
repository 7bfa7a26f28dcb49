package service

import (
	"errors"
	"strings"

	"github.com/recipebox/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrStarsRange       = errors.New("stars must be between 1 and 5")
	ErrAlreadyFavorited = errors.New("you have already added this recipe to favourites")
	ErrCommentRequired  = errors.New("comment content is required")
)

// SocialService 负责评分、收藏、评论以及列表/详情的读路径富化。
type SocialService struct {
	db *gorm.DB
}

// RatingAgg 单个菜谱的评分聚合，读取时现算，不维护冗余计数。
type RatingAgg struct {
	Count int64
	Avg   float64
}

// Annotation 当前用户对某个菜谱的收藏/评分标注
type Annotation struct {
	Favourite bool
	Stars     *int
}

// NewSocialService creates a SocialService instance.
func NewSocialService(gdb *gorm.DB) *SocialService {
	return &SocialService{db: gdb}
}

// Rate 评分采用 (user, recipe) 键上的 upsert：已有评分原地更新，
// 否则创建。返回值第二项表示是否新建。
func (s *SocialService) Rate(userID, recipeID uint, stars int) (*db.Rating, bool, error) {
	if stars < 1 || stars > 5 {
		return nil, false, ErrStarsRange
	}
	if err := s.requireRecipe(recipeID); err != nil {
		return nil, false, err
	}

	var existing db.Rating
	err := s.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&existing).Error
	if err == nil {
		existing.Stars = stars
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, false, err
		}
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	// 并发下第二个写入者落到唯一索引冲突，转为原地更新
	rating := db.Rating{UserID: userID, RecipeID: recipeID, Stars: stars}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stars", "updated_at"}),
	}).Create(&rating).Error; err != nil {
		return nil, false, err
	}

	if err := s.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&rating).Error; err != nil {
		return nil, false, err
	}
	return &rating, true, nil
}

// Favorite 收藏只创建一次，重复收藏由唯一索引裁决并映射为冲突。
func (s *SocialService) Favorite(userID, recipeID uint) (*db.Favorite, error) {
	if err := s.requireRecipe(recipeID); err != nil {
		return nil, err
	}

	favorite := db.Favorite{UserID: userID, RecipeID: recipeID}
	if err := s.db.Create(&favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyFavorited
		}
		return nil, err
	}
	return &favorite, nil
}

// ListFavorites 返回指定用户的全部收藏
func (s *SocialService) ListFavorites(userID uint) ([]db.Favorite, error) {
	var favorites []db.Favorite
	if err := s.db.Where("user_id = ?", userID).Order("id asc").Find(&favorites).Error; err != nil {
		return nil, err
	}
	return favorites, nil
}

// Comment 在菜谱下发表评论
func (s *SocialService) Comment(userID, recipeID uint, content string) (*db.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentRequired
	}
	if err := s.requireRecipe(recipeID); err != nil {
		return nil, err
	}

	comment := db.Comment{UserID: userID, RecipeID: recipeID, Content: content, IsActive: true}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Annotations 一次性取回当前用户在给定菜谱集合上的收藏与评分，
// 供列表/详情标注使用，避免逐条查询。
func (s *SocialService) Annotations(userID uint, recipeIDs []uint) (map[uint]Annotation, error) {
	result := make(map[uint]Annotation, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return result, nil
	}

	var favorites []db.Favorite
	if err := s.db.Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).Find(&favorites).Error; err != nil {
		return nil, err
	}
	for _, favorite := range favorites {
		annotation := result[favorite.RecipeID]
		annotation.Favourite = true
		result[favorite.RecipeID] = annotation
	}

	var ratings []db.Rating
	if err := s.db.Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).Find(&ratings).Error; err != nil {
		return nil, err
	}
	for _, rating := range ratings {
		stars := rating.Stars
		annotation := result[rating.RecipeID]
		annotation.Stars = &stars
		result[rating.RecipeID] = annotation
	}

	return result, nil
}

// RatingSummary 对给定菜谱集合做一次分组聚合，返回评分条数与均值。
// 无评分的菜谱不出现在结果中，调用方按 count=0、avg=0 处理。
func (s *SocialService) RatingSummary(recipeIDs []uint) (map[uint]RatingAgg, error) {
	result := make(map[uint]RatingAgg, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		RecipeID uint
		Count    int64
		Avg      float64
	}
	if err := s.db.Model(&db.Rating{}).
		Select("recipe_id, COUNT(*) AS count, AVG(stars) AS avg").
		Where("recipe_id IN ?", recipeIDs).
		Group("recipe_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.RecipeID] = RatingAgg{Count: row.Count, Avg: row.Avg}
	}
	return result, nil
}

func (s *SocialService) requireRecipe(recipeID uint) error {
	var recipe db.Recipe
	if err := s.db.First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	return nil
}
