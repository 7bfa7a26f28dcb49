package service

import (
	"fmt"

	"github.com/recipebox/internal/db"
)

// UnitError 描述单位校验失败，携带可用单位集合供客户端提示。
type UnitError struct {
	Message string
	Allowed []db.Unit
}

func (e *UnitError) Error() string {
	return e.Message
}

// CheckUnitAllowed 校验单位是否属于配料的允许单位集合。
// 通过返回 nil，否则返回携带允许单位列表的 *UnitError。
func CheckUnitAllowed(ingredient *db.Ingredient, unit *db.Unit) error {
	for _, allowed := range ingredient.AllowedUnits {
		if allowed.ID == unit.ID {
			return nil
		}
	}
	return &UnitError{
		Message: fmt.Sprintf("recipe ingredient unit = %s is not allowed for ingredient with id = %d", unit.Short, ingredient.ID),
		Allowed: ingredient.AllowedUnits,
	}
}

// CanModify 写操作要求操作者即资源归属人，读操作不经过该检查。
func CanModify(user *db.User, ownerID *uint) bool {
	if user == nil || ownerID == nil {
		return false
	}
	return user.ID == *ownerID
}

// CanModifyRecipeChild 子资源（步骤、菜谱配料）的写权限看父菜谱的归属人。
func CanModifyRecipeChild(user *db.User, recipe *db.Recipe) bool {
	return CanModify(user, recipe.UserID)
}

// CanModifyOrStaff 归属人本人或后台人员可写，用于用户资料等资源。
func CanModifyOrStaff(user *db.User, ownerID *uint) bool {
	if user != nil && user.IsStaff {
		return true
	}
	return CanModify(user, ownerID)
}

// IsStaff 单位、分类等参考数据的写入仅限后台人员。
func IsStaff(user *db.User) bool {
	return user != nil && user.IsStaff
}
