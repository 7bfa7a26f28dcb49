package service

import (
	"errors"
	"strings"

	"github.com/recipebox/internal/db"
	"gorm.io/gorm"
)

var (
	ErrUnitExists   = errors.New("unit already exists")
	ErrUnitNotFound = errors.New("unit not found")
	ErrUnitInUse    = errors.New("unit is referenced by ingredients")
	// ErrUnitNamesRequired 全称与简称均为必填
	ErrUnitNamesRequired = errors.New("unit full and short names are required")
)

// UnitService 维护计量单位词汇表
type UnitService struct {
	db *gorm.DB
}

// UnitInput 定义创建/更新单位时的字段
type UnitInput struct {
	Full  string
	Short string
}

// NewUnitService creates a UnitService instance.
func NewUnitService(gdb *gorm.DB) *UnitService {
	return &UnitService{db: gdb}
}

// List returns all units ordered by full name.
func (s *UnitService) List() ([]db.Unit, error) {
	var units []db.Unit
	if err := s.db.Order("full asc").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// Get 根据 ID 获取单位
func (s *UnitService) Get(id uint) (*db.Unit, error) {
	var unit db.Unit
	if err := s.db.First(&unit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// ByShort resolves a unit by its short code.
func (s *UnitService) ByShort(short string) (*db.Unit, error) {
	var unit db.Unit
	if err := s.db.Where("short = ?", strings.TrimSpace(short)).First(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// Create inserts a new unit with unique full and short names.
func (s *UnitService) Create(input UnitInput) (*db.Unit, error) {
	full := strings.TrimSpace(input.Full)
	short := strings.TrimSpace(input.Short)
	if full == "" || short == "" {
		return nil, ErrUnitNamesRequired
	}

	unit := db.Unit{Full: full, Short: short}
	if err := s.db.Create(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUnitExists
		}
		return nil, err
	}
	return &unit, nil
}

// Update 更新单位名称，保持唯一性
func (s *UnitService) Update(id uint, input UnitInput) (*db.Unit, error) {
	unit, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	unit.Full = strings.TrimSpace(input.Full)
	unit.Short = strings.TrimSpace(input.Short)
	if err := s.db.Save(unit).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUnitExists
		}
		return nil, err
	}
	return unit, nil
}

// Delete removes a unit unless an ingredient still references it.
func (s *UnitService) Delete(id uint) error {
	unit, err := s.Get(id)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&db.Ingredient{}).Where("unit_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUnitInUse
	}

	return s.db.Unscoped().Delete(unit).Error
}
