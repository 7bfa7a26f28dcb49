package handler

import (
	"github.com/recipebox/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	auth        *service.AuthService
	units       *service.UnitService
	categories  *service.CategoryService
	ingredients *service.IngredientService
	recipes     *service.RecipeService
	social      *service.SocialService
	uploadDir   string
	uploadURL   string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, uploadDir, uploadURL string) *API {
	return &API{
		db:          db,
		auth:        service.NewAuthService(db),
		units:       service.NewUnitService(db),
		categories:  service.NewCategoryService(db),
		ingredients: service.NewIngredientService(db),
		recipes:     service.NewRecipeService(db),
		social:      service.NewSocialService(db),
		uploadDir:   uploadDir,
		uploadURL:   uploadURL,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
