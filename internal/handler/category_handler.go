package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// GetCategories 获取分类列表
func (a *API) GetCategories(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list categories")
		return
	}

	response := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		response = append(response, gin.H{"id": category.ID, "name": category.Name})
	}
	c.JSON(http.StatusOK, gin.H{"categories": response})
}

// GetCategory 获取单个分类
func (a *API) GetCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	category, err := a.categories.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": category.ID, "name": category.Name})
}

// CreateCategory 创建分类，仅限后台人员
func (a *API) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req, "category name is required") {
		return
	}

	category, err := a.categories.Create(req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": category.ID, "name": category.Name})
}

// UpdateCategory 更新分类名称
func (a *API) UpdateCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req categoryRequest
	if !bindJSON(c, &req, "category name is required") {
		return
	}

	category, err := a.categories.Update(id, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": category.ID, "name": category.Name})
}

// DeleteCategory 删除分类
func (a *API) DeleteCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.categories.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
