package service

import (
	"errors"
	"strings"

	"github.com/recipebox/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCategoryExists       = errors.New("category already exists")
	ErrCategoryInUse        = errors.New("category is associated with recipes")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNameRequired = errors.New("category name is required")
)

// CategoryService wraps category related operations.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// List 返回分类列表及其关联的菜谱数量
func (s *CategoryService) List() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Get 根据 ID 获取分类
func (s *CategoryService) Get(id uint) (*db.Category, error) {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Create inserts a new category with unique name.
func (s *CategoryService) Create(name string) (*db.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	var existing db.Category
	if err := s.db.Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, ErrCategoryExists
	}

	category := db.Category{Name: name}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Update changes the category name while keeping uniqueness.
func (s *CategoryService) Update(id uint, name string) (*db.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	var existing db.Category
	if err := s.db.Where("name = ? AND id <> ?", name, id).First(&existing).Error; err == nil {
		return nil, ErrCategoryExists
	}

	category.Name = name
	if err := s.db.Save(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete removes a category if it is not associated with recipes.
func (s *CategoryService) Delete(id uint) error {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	var count int64
	if err := s.db.Table("recipe_categories").Where("category_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	return s.db.Unscoped().Delete(&category).Error
}
