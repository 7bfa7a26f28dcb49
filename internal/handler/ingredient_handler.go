package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recipebox/internal/db"
	"github.com/recipebox/internal/service"
)

type ingredientRequest struct {
	Name         string  `json:"name" binding:"required"`
	ImageURL     string  `json:"imageUrl"`
	Quantity     float64 `json:"quantity"`
	Unit         uint    `json:"unit" binding:"required"`
	AllowedUnits []uint  `json:"allowedUnits"`
	Kcal         uint    `json:"kcal"`
	IsActive     *bool   `json:"isActive"`
}

func ingredientView(ingredient *db.Ingredient) gin.H {
	return gin.H{
		"id":           ingredient.ID,
		"name":         ingredient.Name,
		"imageUrl":     ingredient.ImageURL,
		"quantity":     ingredient.Quantity,
		"unit":         unitView(ingredient.Unit),
		"allowedUnits": unitViews(ingredient.AllowedUnits),
		"kcal":         ingredient.Kcal,
		"isActive":     ingredient.IsActive,
	}
}

// GetIngredients 获取配料列表，附带解析后的单位
func (a *API) GetIngredients(c *gin.Context) {
	ingredients, err := a.ingredients.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list ingredients")
		return
	}

	response := make([]gin.H, 0, len(ingredients))
	for i := range ingredients {
		response = append(response, ingredientView(&ingredients[i]))
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": response})
}

// GetIngredient 获取单个配料
func (a *API) GetIngredient(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ingredient, err := a.ingredients.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredientView(ingredient))
}

// CreateIngredient 创建配料，任何已登录用户均可
func (a *API) CreateIngredient(c *gin.Context) {
	var req ingredientRequest
	if !bindJSON(c, &req, "ingredient name and unit are required") {
		return
	}

	ingredient, err := a.ingredients.Create(service.IngredientInput{
		Name:           req.Name,
		ImageURL:       req.ImageURL,
		Quantity:       req.Quantity,
		UnitID:         req.Unit,
		AllowedUnitIDs: req.AllowedUnits,
		Kcal:           req.Kcal,
		IsActive:       req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ingredientView(ingredient))
}

// UpdateIngredient 更新配料，仅限后台人员
func (a *API) UpdateIngredient(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req ingredientRequest
	if !bindJSON(c, &req, "ingredient name and unit are required") {
		return
	}

	ingredient, err := a.ingredients.Update(id, service.IngredientInput{
		Name:           req.Name,
		ImageURL:       req.ImageURL,
		Quantity:       req.Quantity,
		UnitID:         req.Unit,
		AllowedUnitIDs: req.AllowedUnits,
		Kcal:           req.Kcal,
		IsActive:       req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredientView(ingredient))
}

// DeleteIngredient 删除配料，仅限后台人员
func (a *API) DeleteIngredient(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.ingredients.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ingredient deleted"})
}
