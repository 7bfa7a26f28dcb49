package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/recipebox/internal/db"
	"gorm.io/gorm"
)

var (
	ErrNoCategories   = errors.New("recipe is required to have at least one category")
	ErrNoIngredients  = errors.New("recipe is required to have at least one ingredient")
	ErrNoSteps        = errors.New("recipe is required to have at least one step")
	ErrTitleTaken     = errors.New("recipe title already exists")
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrDuplicateStepOrder 由 (recipe_id, sort_order) 唯一索引裁决后映射而来
	ErrDuplicateStepOrder = errors.New("there is already such a step in this recipe")
	// ErrDuplicateIngredient 由 (recipe_id, ingredient_id) 唯一索引裁决后映射而来
	ErrDuplicateIngredient      = errors.New("there is already such an ingredient in this recipe")
	ErrStepOrderInvalid         = errors.New("step order must be a positive integer")
	ErrInvalidLevel             = errors.New("invalid level")
	ErrTitleRequired            = errors.New("recipe title is required")
	ErrStepDescRequired         = errors.New("step description is required")
	ErrStepNotFound             = errors.New("step not found")
	ErrRecipeIngredientNotFound = errors.New("recipe ingredient not found")
	ErrInvalidPrepTimeUnit      = errors.New("invalid preparation time unit")
)

// RecipeService 负责菜谱聚合（菜谱 + 步骤 + 配料关联 + 分类）的组装与校验。
// 所有多行写入在单个事务内完成：要么全部落库，要么全部回滚。
type RecipeService struct {
	db *gorm.DB
}

// StepInput 创建步骤时的输入对象
type StepInput struct {
	Description string
	Order       int
	ImageURL    string
}

// RecipeIngredientInput 创建菜谱配料关联时的输入对象，Unit 为单位简称
type RecipeIngredientInput struct {
	IngredientID uint
	Unit         string
	Quantity     float64
}

// RecipeInput 定义创建菜谱时的完整载荷
type RecipeInput struct {
	Title               string
	Description         string
	ImageURL            string
	PreparationTime     float64
	PreparationTimeUnit string
	Level               int
	CategoryIDs         []uint
	Ingredients         []RecipeIngredientInput
	Steps               []StepInput
}

// RecipeUpdate 定义更新载荷。标量字段可选；categories/steps/ingredients
// 为追加语义：提供的分类并入现有集合，步骤与配料附加到已有集合之后。
type RecipeUpdate struct {
	Title               *string
	Description         *string
	ImageURL            *string
	PreparationTime     *float64
	PreparationTimeUnit *string
	Level               *int
	CategoryIDs         []uint
	Ingredients         []RecipeIngredientInput
	Steps               []StepInput
}

// NewRecipeService creates a RecipeService instance.
func NewRecipeService(gdb *gorm.DB) *RecipeService {
	return &RecipeService{db: gdb}
}

// Create 校验并持久化菜谱聚合。三个嵌套数组均不得为空；
// 任何一项校验失败都会回滚整个事务，不留下部分状态。
func (s *RecipeService) Create(userID uint, input RecipeInput) (*db.Recipe, error) {
	if len(input.CategoryIDs) == 0 {
		return nil, ErrNoCategories
	}
	if len(input.Ingredients) == 0 {
		return nil, ErrNoIngredients
	}
	if len(input.Steps) == 0 {
		return nil, ErrNoSteps
	}
	if err := validateRecipeScalars(input.Title, input.PreparationTime, input.PreparationTimeUnit, input.Level); err != nil {
		return nil, err
	}

	// 展示名归一化为单字母编码后入库
	prepUnit, _ := db.ParsePrepTimeUnit(input.PreparationTimeUnit)

	recipe := db.Recipe{
		UserID:              &userID,
		Title:               strings.TrimSpace(input.Title),
		Description:         input.Description,
		ImageURL:            input.ImageURL,
		PreparationTime:     input.PreparationTime,
		PreparationTimeUnit: prepUnit,
		Level:               input.Level,
		DateAdded:           time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		categories, err := resolveCategories(tx, input.CategoryIDs)
		if err != nil {
			return err
		}

		if err := tx.Create(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrTitleTaken
			}
			return err
		}

		if err := tx.Model(&recipe).Association("Categories").Append(&categories); err != nil {
			return err
		}

		for _, step := range input.Steps {
			if _, err := createStep(tx, recipe.ID, step); err != nil {
				return err
			}
		}

		for _, item := range input.Ingredients {
			if _, err := createRecipeIngredient(tx, recipe.ID, item); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(recipe.ID)
}

// Update 执行追加式更新。每个可选部分独立生效，但任何一项
// 校验失败都会使整个更新事务回滚。
func (s *RecipeService) Update(id uint, input RecipeUpdate) (*db.Recipe, error) {
	recipe, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if input.Title != nil {
			recipe.Title = strings.TrimSpace(*input.Title)
			if recipe.Title == "" {
				return ErrTitleRequired
			}
		}
		if input.Description != nil {
			recipe.Description = *input.Description
		}
		if input.ImageURL != nil {
			recipe.ImageURL = *input.ImageURL
		}
		if input.PreparationTime != nil {
			if *input.PreparationTime < 0 {
				return ErrNegativeQuantity
			}
			recipe.PreparationTime = *input.PreparationTime
		}
		if input.PreparationTimeUnit != nil {
			code, ok := db.ParsePrepTimeUnit(*input.PreparationTimeUnit)
			if !ok {
				return ErrInvalidPrepTimeUnit
			}
			recipe.PreparationTimeUnit = code
		}
		if input.Level != nil {
			if *input.Level < db.LevelNovice || *input.Level > db.LevelExpert {
				return ErrInvalidLevel
			}
			recipe.Level = *input.Level
		}

		if err := tx.Omit("Categories", "Steps", "Ingredients", "Comments", "User").Save(recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrTitleTaken
			}
			return err
		}

		if len(input.CategoryIDs) > 0 {
			categories, err := resolveCategories(tx, input.CategoryIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(recipe).Association("Categories").Append(&categories); err != nil {
				return err
			}
		}

		for _, step := range input.Steps {
			if _, err := createStep(tx, recipe.ID, step); err != nil {
				return err
			}
		}

		for _, item := range input.Ingredients {
			if _, err := createRecipeIngredient(tx, recipe.ID, item); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(id)
}

// AddSteps 批量追加步骤，整批一个事务：单个非法项使整批失败。
// 返回本次新建的步骤。
func (s *RecipeService) AddSteps(recipeID uint, items []StepInput) ([]db.Step, error) {
	if _, err := s.find(recipeID); err != nil {
		return nil, err
	}

	created := make([]db.Step, 0, len(items))
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			step, err := createStep(tx, recipeID, item)
			if err != nil {
				return err
			}
			created = append(created, *step)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AddIngredients 批量追加菜谱配料，整批一个事务。返回本次新建的关联。
func (s *RecipeService) AddIngredients(recipeID uint, items []RecipeIngredientInput) ([]db.RecipeIngredient, error) {
	if _, err := s.find(recipeID); err != nil {
		return nil, err
	}

	created := make([]db.RecipeIngredient, 0, len(items))
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			link, err := createRecipeIngredient(tx, recipeID, item)
			if err != nil {
				return err
			}
			created = append(created, *link)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateStep 修改既有步骤，顺序冲突同样由唯一索引裁决。
func (s *RecipeService) UpdateStep(id uint, input StepInput) (*db.Step, error) {
	var step db.Step
	if err := s.db.First(&step, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id = %d", ErrStepNotFound, id)
		}
		return nil, err
	}

	if input.Order < 1 {
		return nil, ErrStepOrderInvalid
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrStepDescRequired
	}

	step.Description = input.Description
	step.SortOrder = input.Order
	step.ImageURL = input.ImageURL
	if err := s.db.Save(&step).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateStepOrder
		}
		return nil, err
	}
	return &step, nil
}

// DeleteStep 删除步骤
func (s *RecipeService) DeleteStep(id uint) error {
	return s.db.Unscoped().Delete(&db.Step{}, id).Error
}

// StepParent 返回步骤所属菜谱，用于归属校验。
func (s *RecipeService) StepParent(id uint) (*db.Recipe, error) {
	var step db.Step
	if err := s.db.First(&step, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id = %d", ErrStepNotFound, id)
		}
		return nil, err
	}
	return s.find(step.RecipeID)
}

// UpdateRecipeIngredient 修改既有菜谱配料，单位按配料当前的允许单位集合重新校验。
func (s *RecipeService) UpdateRecipeIngredient(id uint, unit *string, quantity *float64) (*db.RecipeIngredient, error) {
	var item db.RecipeIngredient
	if err := s.db.Preload("Ingredient.AllowedUnits").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id = %d", ErrRecipeIngredientNotFound, id)
		}
		return nil, err
	}

	if quantity != nil {
		if *quantity < 0 {
			return nil, ErrNegativeQuantity
		}
		item.Quantity = *quantity
	}

	if unit != nil {
		resolved, err := resolveUnitShort(s.db, *unit)
		if err != nil {
			return nil, err
		}
		if err := CheckUnitAllowed(&item.Ingredient, resolved); err != nil {
			return nil, err
		}
		item.Unit = resolved.Short
	}

	if err := s.db.Omit("Ingredient").Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteRecipeIngredient 删除菜谱配料关联
func (s *RecipeService) DeleteRecipeIngredient(id uint) error {
	return s.db.Unscoped().Delete(&db.RecipeIngredient{}, id).Error
}

// RecipeIngredientParent 返回菜谱配料所属菜谱，用于归属校验。
func (s *RecipeService) RecipeIngredientParent(id uint) (*db.Recipe, error) {
	var item db.RecipeIngredient
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id = %d", ErrRecipeIngredientNotFound, id)
		}
		return nil, err
	}
	return s.find(item.RecipeID)
}

// Get 返回带完整嵌套数据的菜谱
func (s *RecipeService) Get(id uint) (*db.Recipe, error) {
	var recipe db.Recipe
	err := s.db.
		Preload("Categories").
		Preload("Steps", func(gdb *gorm.DB) *gorm.DB {
			return gdb.Order("steps.sort_order asc")
		}).
		Preload("Ingredients.Ingredient").
		Preload("Comments", "is_active = ?", true).
		First(&recipe, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id = %d", ErrRecipeNotFound, id)
		}
		return nil, err
	}
	return &recipe, nil
}

// List 返回全部菜谱及嵌套数据
func (s *RecipeService) List() ([]db.Recipe, error) {
	var recipes []db.Recipe
	err := s.db.
		Preload("Categories").
		Preload("Steps", func(gdb *gorm.DB) *gorm.DB {
			return gdb.Order("steps.sort_order asc")
		}).
		Preload("Ingredients.Ingredient").
		Preload("Comments", "is_active = ?", true).
		Order("recipes.id asc").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// Delete 删除菜谱，步骤与配料关联随之级联清除。
func (s *RecipeService) Delete(id uint) error {
	recipe, err := s.find(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("recipe_id = ?", id).Delete(&db.Step{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("recipe_id = ?", id).Delete(&db.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("recipe_id = ?", id).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Categories").Clear(); err != nil {
			return err
		}
		return tx.Unscoped().Delete(recipe).Error
	})
}

func (s *RecipeService) find(id uint) (*db.Recipe, error) {
	var recipe db.Recipe
	if err := s.db.First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id = %d", ErrRecipeNotFound, id)
		}
		return nil, err
	}
	return &recipe, nil
}

func resolveCategories(tx *gorm.DB, ids []uint) ([]db.Category, error) {
	categories := make([]db.Category, 0, len(ids))
	for _, id := range ids {
		var category db.Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: id = %d", ErrCategoryNotFound, id)
			}
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func resolveUnitShort(tx *gorm.DB, short string) (*db.Unit, error) {
	var unit db.Unit
	if err := tx.Where("short = ?", strings.TrimSpace(short)).First(&unit).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		var available []db.Unit
		if listErr := tx.Order("full asc").Find(&available).Error; listErr != nil {
			return nil, listErr
		}
		return nil, &UnitError{Message: "there is no such unit", Allowed: available}
	}
	return &unit, nil
}

func createStep(tx *gorm.DB, recipeID uint, input StepInput) (*db.Step, error) {
	if input.Order < 1 {
		return nil, ErrStepOrderInvalid
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrStepDescRequired
	}

	step := db.Step{
		RecipeID:    recipeID,
		Description: input.Description,
		SortOrder:   input.Order,
		ImageURL:    input.ImageURL,
	}
	if err := tx.Create(&step).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateStepOrder
		}
		return nil, err
	}
	return &step, nil
}

// createRecipeIngredient 解析配料与单位并落库。单位必须属于配料
// 此刻的允许单位集合；同一菜谱内的重复配料由唯一索引裁决。
func createRecipeIngredient(tx *gorm.DB, recipeID uint, input RecipeIngredientInput) (*db.RecipeIngredient, error) {
	if input.Quantity < 0 {
		return nil, ErrNegativeQuantity
	}

	var ingredient db.Ingredient
	if err := tx.Preload("AllowedUnits").First(&ingredient, input.IngredientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id = %d", ErrIngredientNotFound, input.IngredientID)
		}
		return nil, err
	}

	unit, err := resolveUnitShort(tx, input.Unit)
	if err != nil {
		return nil, err
	}
	if err := CheckUnitAllowed(&ingredient, unit); err != nil {
		return nil, err
	}

	item := db.RecipeIngredient{
		RecipeID:     recipeID,
		IngredientID: ingredient.ID,
		Quantity:     input.Quantity,
		Unit:         unit.Short,
	}
	if err := tx.Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateIngredient
		}
		return nil, err
	}
	return &item, nil
}

func validateRecipeScalars(title string, prepTime float64, prepTimeUnit string, level int) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if prepTime < 0 {
		return ErrNegativeQuantity
	}
	if _, ok := db.ParsePrepTimeUnit(prepTimeUnit); !ok {
		return ErrInvalidPrepTimeUnit
	}
	if level < db.LevelNovice || level > db.LevelExpert {
		return ErrInvalidLevel
	}
	return nil
}
