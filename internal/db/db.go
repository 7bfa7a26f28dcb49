package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Init 初始化数据库连接并执行自动迁移。
// databasePath 为空时将回退到默认值 recipebox.db。
// TranslateError 开启后，唯一约束冲突会以 gorm.ErrDuplicatedKey 暴露，
// 供上层映射为领域冲突错误。
func Init(databasePath string) error {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = "recipebox.db"
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return err
	}

	return Migrate(DB)
}

// Migrate 为核心模型创建表，测试中对内存库复用同一迁移集合。
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&User{},
		&Unit{},
		&Category{},
		&Ingredient{},
		&Recipe{},
		&Step{},
		&RecipeIngredient{},
		&Rating{},
		&Favorite{},
		&Comment{},
	)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
