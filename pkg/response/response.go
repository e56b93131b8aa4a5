package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 历史 API 直接返回扁平 JSON（{"message": ...}），HTTP 状态码即业务结果，
// 这里统一封装，handler 不直接拼 gin.H

// Data 200 + 任意负载
func Data(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Message 指定状态码 + {"message": ...}
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// OK 200 + {"message": ...}
func OK(c *gin.Context, message string) {
	Message(c, http.StatusOK, message)
}

// BadRequest 400 + {"message": ...}
func BadRequest(c *gin.Context, message string) {
	Message(c, http.StatusBadRequest, message)
}

// Unauthorized 401 + {"message": "Unauthorized"}
func Unauthorized(c *gin.Context) {
	Message(c, http.StatusUnauthorized, "Unauthorized")
}

// Forbidden 403 + {"message": ...}
func Forbidden(c *gin.Context, message string) {
	Message(c, http.StatusForbidden, message)
}

// NotFound 404 + {"message": ...}
func NotFound(c *gin.Context, message string) {
	Message(c, http.StatusNotFound, message)
}

// Error 指定状态码 + {"error": ...}
// 商品接口历史上用 error 字段，保持兼容
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// ServerError 500 + {"message": ..., "error": ...}
func ServerError(c *gin.Context, message, detail string) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": message,
		"error":   detail,
	})
}
