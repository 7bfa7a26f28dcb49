package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recipebox/internal/service"
)

type unitRequest struct {
	Full  string `json:"full" binding:"required"`
	Short string `json:"short" binding:"required"`
}

// GetUnits 获取单位列表
func (a *API) GetUnits(c *gin.Context) {
	units, err := a.units.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list units")
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": unitViews(units)})
}

// GetUnit 获取单个单位
func (a *API) GetUnit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	unit, err := a.units.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, unitView(*unit))
}

// CreateUnit 创建单位，仅限后台人员
func (a *API) CreateUnit(c *gin.Context) {
	var req unitRequest
	if !bindJSON(c, &req, "unit full and short names are required") {
		return
	}

	unit, err := a.units.Create(service.UnitInput{Full: req.Full, Short: req.Short})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, unitView(*unit))
}

// UpdateUnit 更新单位
func (a *API) UpdateUnit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req unitRequest
	if !bindJSON(c, &req, "unit full and short names are required") {
		return
	}

	unit, err := a.units.Update(id, service.UnitInput{Full: req.Full, Short: req.Short})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, unitView(*unit))
}

// DeleteUnit 删除单位
func (a *API) DeleteUnit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.units.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unit deleted"})
}
