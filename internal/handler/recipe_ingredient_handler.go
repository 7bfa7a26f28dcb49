package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recipebox/internal/service"
)

type recipeIngredientUpdateRequest struct {
	Unit     *string  `json:"unit"`
	Quantity *float64 `json:"quantity"`
}

// AddRecipeIngredients 为菜谱追加配料关联，请求体可为单个对象或数组；
// 整批一个事务，单个非法单位或重复配料使整批失败。
func (a *API) AddRecipeIngredients(c *gin.Context) {
	recipeID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if !a.requireRecipeOwner(c, recipeID) {
		return
	}

	items, ok := decodeOneOrMany[recipeIngredientRequest](c)
	if !ok {
		return
	}
	if len(items) == 0 {
		respondError(c, http.StatusBadRequest, service.ErrNoIngredients.Error())
		return
	}

	created, err := a.recipes.AddIngredients(recipeID, toIngredientInputs(items))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := make([]gin.H, 0, len(created))
	for _, item := range created {
		response = append(response, recipeIngredientView(item))
	}
	c.JSON(http.StatusCreated, gin.H{"ingredients": response})
}

// UpdateRecipeIngredient 修改配料关联，单位按当前允许单位集合重新校验
func (a *API) UpdateRecipeIngredient(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	parent, err := a.recipes.RecipeIngredientParent(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !service.CanModifyRecipeChild(currentUser(c), parent) {
		respondError(c, http.StatusForbidden, "only the recipe owner can modify its ingredients")
		return
	}

	var req recipeIngredientUpdateRequest
	if !bindJSON(c, &req, "invalid recipe ingredient payload") {
		return
	}

	item, err := a.recipes.UpdateRecipeIngredient(id, req.Unit, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipeIngredientView(*item))
}

// DeleteRecipeIngredient 删除配料关联，仅父菜谱归属人可操作
func (a *API) DeleteRecipeIngredient(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	parent, err := a.recipes.RecipeIngredientParent(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !service.CanModifyRecipeChild(currentUser(c), parent) {
		respondError(c, http.StatusForbidden, "only the recipe owner can delete its ingredients")
		return
	}

	if err := a.recipes.DeleteRecipeIngredient(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe ingredient deleted"})
}
