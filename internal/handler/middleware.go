package handler

import (
	"log"
	"time"

	"eshop/internal/model"
	"eshop/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookieName 会话 Cookie 名
	SessionCookieName = "session_token"

	currentUserKey = "currentUser"
)

// LoggerMiddleware 日志中间件
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if query != "" {
			path = path + "?" + query
		}

		log.Printf("[HTTP] %d | %13v | %15s | %-7s %s",
			status,
			latency,
			c.ClientIP(),
			c.Request.Method,
			path,
		)
	}
}

// RecoveryMiddleware 恢复中间件，防止 panic 导致服务崩溃
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[PANIC] %v", err)
				c.AbortWithStatusJSON(500, gin.H{
					"message": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// CORSMiddleware 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// RequireLogin 认证中间件
// 从 Cookie 取会话 token 换当前用户，挂到请求上下文；没有有效会话直接 401
func RequireLogin(users UserContract) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		user, err := users.UserFromSession(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser 取认证中间件放进来的当前用户
// 只能在挂了 RequireLogin 的路由里调用
func CurrentUser(c *gin.Context) *model.User {
	user, _ := c.Get(currentUserKey)
	u, _ := user.(*model.User)
	return u
}
