package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/recipebox/internal/db"
	"gorm.io/gorm"
)

var (
	ErrIngredientExists       = errors.New("ingredient already exists")
	ErrIngredientNotFound     = errors.New("ingredient not found")
	ErrNoAllowedUnits         = errors.New("ingredient requires at least one allowed unit")
	ErrNegativeQuantity       = errors.New("quantity must not be negative")
	ErrIngredientNameRequired = errors.New("ingredient name is required")
)

// IngredientService 维护配料登记表及其允许单位集合
type IngredientService struct {
	db *gorm.DB
}

// IngredientInput 定义创建/更新配料时可配置字段
type IngredientInput struct {
	Name           string
	ImageURL       string
	Quantity       float64
	UnitID         uint
	AllowedUnitIDs []uint
	Kcal           uint
	IsActive       *bool
}

// NewIngredientService creates an IngredientService instance.
func NewIngredientService(gdb *gorm.DB) *IngredientService {
	return &IngredientService{db: gdb}
}

// List returns ingredients with their default unit and allowed units resolved.
func (s *IngredientService) List() ([]db.Ingredient, error) {
	var ingredients []db.Ingredient
	if err := s.db.Preload("Unit").Preload("AllowedUnits").Order("name asc").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// Get 根据 ID 获取配料，附带默认单位与允许单位
func (s *IngredientService) Get(id uint) (*db.Ingredient, error) {
	var ingredient db.Ingredient
	if err := s.db.Preload("Unit").Preload("AllowedUnits").First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id = %d", ErrIngredientNotFound, id)
		}
		return nil, err
	}
	return &ingredient, nil
}

// Create 新建配料。允许单位集合不得为空；默认单位不强制属于该集合，
// 与历史数据保持宽松一致。
func (s *IngredientService) Create(input IngredientInput) (*db.Ingredient, error) {
	if err := validateIngredientInput(input); err != nil {
		return nil, err
	}

	allowed, err := s.resolveUnits(input.AllowedUnitIDs)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveUnit(input.UnitID); err != nil {
		return nil, err
	}

	ingredient := db.Ingredient{
		Name:     strings.TrimSpace(input.Name),
		ImageURL: strings.TrimSpace(input.ImageURL),
		Quantity: input.Quantity,
		UnitID:   input.UnitID,
		Kcal:     input.Kcal,
		IsActive: true,
	}
	if input.IsActive != nil {
		ingredient.IsActive = *input.IsActive
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ingredient).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrIngredientExists
			}
			return err
		}
		return tx.Model(&ingredient).Association("AllowedUnits").Append(&allowed)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ingredient.ID)
}

// Update 更新配料，允许单位集合整体替换
func (s *IngredientService) Update(id uint, input IngredientInput) (*db.Ingredient, error) {
	if err := validateIngredientInput(input); err != nil {
		return nil, err
	}

	ingredient, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	allowed, err := s.resolveUnits(input.AllowedUnitIDs)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveUnit(input.UnitID); err != nil {
		return nil, err
	}

	ingredient.Name = strings.TrimSpace(input.Name)
	ingredient.ImageURL = strings.TrimSpace(input.ImageURL)
	ingredient.Quantity = input.Quantity
	ingredient.UnitID = input.UnitID
	ingredient.Kcal = input.Kcal
	if input.IsActive != nil {
		ingredient.IsActive = *input.IsActive
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Unit", "AllowedUnits").Save(ingredient).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrIngredientExists
			}
			return err
		}
		return tx.Model(ingredient).Association("AllowedUnits").Replace(&allowed)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(id)
}

// Delete 删除配料
func (s *IngredientService) Delete(id uint) error {
	ingredient, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.db.Select("AllowedUnits").Unscoped().Delete(ingredient).Error
}

func (s *IngredientService) resolveUnit(id uint) (*db.Unit, error) {
	var unit db.Unit
	if err := s.db.First(&unit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}
	return &unit, nil
}

func (s *IngredientService) resolveUnits(ids []uint) ([]db.Unit, error) {
	var units []db.Unit
	if err := s.db.Where("id IN ?", ids).Find(&units).Error; err != nil {
		return nil, err
	}
	if len(units) != len(ids) {
		return nil, ErrUnitNotFound
	}
	return units, nil
}

func validateIngredientInput(input IngredientInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrIngredientNameRequired
	}
	if input.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if len(input.AllowedUnitIDs) == 0 {
		return ErrNoAllowedUnits
	}
	return nil
}
