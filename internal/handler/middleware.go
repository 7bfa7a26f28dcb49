package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/recipebox/internal/db"
	"github.com/recipebox/internal/logger"
	"go.uber.org/zap"
)

const currentUserContextKey = "__current_user"

// RequestLogger 以结构化日志记录每个请求
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// CurrentUser 从会话中解析当前用户并放入请求上下文。
// 匿名请求不中断，由后续中间件决定是否拒绝。
func (a *API) CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		rawID := session.Get("user_id")
		if rawID == nil {
			c.Next()
			return
		}

		userID, ok := rawID.(uint)
		if !ok {
			c.Next()
			return
		}

		var user db.User
		if err := a.db.First(&user, userID).Error; err == nil {
			c.Set(currentUserContextKey, &user)
		}
		c.Next()
	}
}

// AuthRequired 要求已登录，匿名请求返回 401
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffRequired 要求后台人员身份
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		if !user.IsStaff {
			respondError(c, http.StatusForbidden, "staff permission required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *db.User {
	if cached, exists := c.Get(currentUserContextKey); exists {
		if user, ok := cached.(*db.User); ok {
			return user
		}
	}
	return nil
}
