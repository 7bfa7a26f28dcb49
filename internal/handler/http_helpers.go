package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/recipebox/internal/db"
	"github.com/recipebox/internal/logger"
	"github.com/recipebox/internal/service"
	"go.uber.org/zap"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func unitView(unit db.Unit) gin.H {
	return gin.H{"id": unit.ID, "full": unit.Full, "short": unit.Short}
}

func unitViews(units []db.Unit) []gin.H {
	views := make([]gin.H, 0, len(units))
	for _, unit := range units {
		views = append(views, unitView(unit))
	}
	return views
}

// respondServiceError 将服务层错误映射为 HTTP 响应。
// 单位校验失败返回结构化载荷，列出允许的单位；
// 其余校验/冲突类错误按源系统口径统一回 400。
func respondServiceError(c *gin.Context, err error) {
	var unitErr *service.UnitError
	if errors.As(err, &unitErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":       unitErr.Message,
			"allowed units": unitViews(unitErr.Allowed),
		})
		return
	}

	for _, known := range badRequestErrors {
		if errors.Is(err, known) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	logger.Error("unhandled service error", zap.Error(err))
	respondError(c, http.StatusInternalServerError, "internal server error")
}

// 校验与约束冲突一律映射为 400；引用缺失也按源系统口径回 400 而非 404。
var badRequestErrors = []error{
	service.ErrNoCategories,
	service.ErrNoIngredients,
	service.ErrNoSteps,
	service.ErrTitleTaken,
	service.ErrDuplicateStepOrder,
	service.ErrDuplicateIngredient,
	service.ErrStepOrderInvalid,
	service.ErrInvalidLevel,
	service.ErrInvalidPrepTimeUnit,
	service.ErrNegativeQuantity,
	service.ErrRecipeNotFound,
	service.ErrIngredientNotFound,
	service.ErrIngredientExists,
	service.ErrNoAllowedUnits,
	service.ErrCategoryNotFound,
	service.ErrCategoryExists,
	service.ErrCategoryInUse,
	service.ErrUnitNotFound,
	service.ErrUnitExists,
	service.ErrUnitInUse,
	service.ErrStarsRange,
	service.ErrAlreadyFavorited,
	service.ErrCommentRequired,
	service.ErrEmailTaken,
	service.ErrUserNotFound,
	service.ErrTitleRequired,
	service.ErrStepDescRequired,
	service.ErrUnitNamesRequired,
	service.ErrCategoryNameRequired,
	service.ErrIngredientNameRequired,
	service.ErrRegistrationFields,
	service.ErrStepNotFound,
	service.ErrRecipeIngredientNotFound,
}
