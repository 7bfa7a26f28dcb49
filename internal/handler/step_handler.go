package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recipebox/internal/service"
)

// decodeOneOrMany 接受单个对象或数组两种请求体形态。
func decodeOneOrMany[T any](c *gin.Context) ([]T, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, true
	}

	var single T
	if err := json.Unmarshal(raw, &single); err != nil {
		respondError(c, http.StatusBadRequest, "request body must be an object or an array")
		return nil, false
	}
	return []T{single}, true
}

// AddSteps 为菜谱追加步骤，请求体可为单个对象或数组；
// 整批一个事务，重复顺序使整批失败。
func (a *API) AddSteps(c *gin.Context) {
	recipeID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if !a.requireRecipeOwner(c, recipeID) {
		return
	}

	items, ok := decodeOneOrMany[stepRequest](c)
	if !ok {
		return
	}
	if len(items) == 0 {
		respondError(c, http.StatusBadRequest, service.ErrNoSteps.Error())
		return
	}

	steps, err := a.recipes.AddSteps(recipeID, toStepInputs(items))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := make([]gin.H, 0, len(steps))
	for _, step := range steps {
		response = append(response, stepView(step))
	}
	c.JSON(http.StatusCreated, gin.H{"steps": response})
}

// UpdateStep 修改步骤，仅父菜谱归属人可操作
func (a *API) UpdateStep(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	parent, err := a.recipes.StepParent(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !service.CanModifyRecipeChild(currentUser(c), parent) {
		respondError(c, http.StatusForbidden, "only the recipe owner can modify its steps")
		return
	}

	var req stepRequest
	if !bindJSON(c, &req, "invalid step payload") {
		return
	}

	step, err := a.recipes.UpdateStep(id, service.StepInput{
		Description: req.Description,
		Order:       req.Order,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stepView(*step))
}

// DeleteStep 删除步骤，仅父菜谱归属人可操作
func (a *API) DeleteStep(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	parent, err := a.recipes.StepParent(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !service.CanModifyRecipeChild(currentUser(c), parent) {
		respondError(c, http.StatusForbidden, "only the recipe owner can delete its steps")
		return
	}

	if err := a.recipes.DeleteStep(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "step deleted"})
}

func (a *API) requireRecipeOwner(c *gin.Context, recipeID uint) bool {
	recipe, err := a.recipes.Get(recipeID)
	if err != nil {
		respondServiceError(c, err)
		return false
	}
	if !service.CanModifyRecipeChild(currentUser(c), recipe) {
		respondError(c, http.StatusForbidden, "only the recipe owner can modify it")
		return false
	}
	return true
}
