package handler

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/recipebox/internal/db"
	"github.com/recipebox/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupAPITest(t *testing.T) (*API, *gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	api := NewAPI(gdb, t.TempDir(), "/uploads")
	return api, gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

// newTestContext 构造带 JSON 请求体和可选登录用户的测试上下文
func newTestContext(method, path, body string, user *db.User, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params

	if user != nil {
		c.Set(currentUserContextKey, user)
	}
	return c, w
}

func seedTestUser(t *testing.T, gdb *gorm.DB, username string) *db.User {
	t.Helper()

	user := db.User{Username: username, Email: username + "@example.com", Password: "hash"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

type recipeFixture struct {
	Unit       *db.Unit
	Ingredient *db.Ingredient
	Category   *db.Category
}

// seedRecipeFixture 准备创建菜谱所需的参考数据
func seedRecipeFixture(t *testing.T, gdb *gorm.DB) recipeFixture {
	t.Helper()

	gram := db.Unit{Full: "gram", Short: "g"}
	if err := gdb.Create(&gram).Error; err != nil {
		t.Fatalf("seed unit: %v", err)
	}
	flour := db.Ingredient{Name: "flour", Quantity: 100, UnitID: gram.ID, IsActive: true}
	if err := gdb.Create(&flour).Error; err != nil {
		t.Fatalf("seed ingredient: %v", err)
	}
	if err := gdb.Model(&flour).Association("AllowedUnits").Append(&gram); err != nil {
		t.Fatalf("associate unit: %v", err)
	}
	breakfast := db.Category{Name: "breakfast"}
	if err := gdb.Create(&breakfast).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	return recipeFixture{Unit: &gram, Ingredient: &flour, Category: &breakfast}
}

func seedTestRecipe(t *testing.T, api *API, userID uint, fixture recipeFixture, title string) *db.Recipe {
	t.Helper()

	recipe, err := api.recipes.Create(userID, service.RecipeInput{
		Title:               title,
		PreparationTime:     15,
		PreparationTimeUnit: "m",
		Level:               db.LevelCompetent,
		CategoryIDs:         []uint{fixture.Category.ID},
		Ingredients:         []service.RecipeIngredientInput{{IngredientID: fixture.Ingredient.ID, Unit: fixture.Unit.Short, Quantity: 100}},
		Steps:               []service.StepInput{{Description: "mix", Order: 1}},
	})
	if err != nil {
		t.Fatalf("seed recipe: %v", err)
	}
	return recipe
}

func idParam(id uint) gin.Params {
	return gin.Params{{Key: "id", Value: fmt.Sprint(id)}}
}
