package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/recipebox/internal/db"
	"github.com/recipebox/internal/service"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type profileUpdateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func userView(user *db.User) gin.H {
	return gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"is_staff": user.IsStaff,
	}
}

// Login 校验凭证并写入会话
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "email and password are required") {
		return
	}

	user, err := a.auth.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, err.Error())
			return
		}
		respondServiceError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	c.JSON(http.StatusOK, userView(user))
}

// Logout 清除会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "successfully logged out"})
}

// Register 开放注册
func (a *API) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req, "username, email and password are required") {
		return
	}

	user, err := a.auth.Register(service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userView(user))
}

// UpdateUser 更新用户资料，仅本人或后台人员可操作
func (a *API) UpdateUser(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	target, err := a.auth.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	actor := currentUser(c)
	ownerID := target.ID
	if !service.CanModifyOrStaff(actor, &ownerID) {
		respondError(c, http.StatusForbidden, "you can only modify your own profile")
		return
	}

	var req profileUpdateRequest
	if !bindJSON(c, &req, "invalid profile payload") {
		return
	}

	user, err := a.auth.UpdateProfile(id, req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, userView(user))
}
