// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"paw-adopt-api/internal/domain/entity"
)

// RequirePermission 权限检查中间件。
// 检查当前用户角色是否具有指定权限，否则返回 403。
func RequirePermission(perm entity.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := Caller(c)
		if caller == nil {
			abortUnauthorized(c, "authentication required")
			return
		}
		if !entity.HasPermission(entity.UserRole(caller.Role), perm) {
			abortForbidden(c, "permission denied")
			return
		}
		c.Next()
	}
}

// RequireRole 角色检查中间件
func RequireRole(roles ...entity.UserRole) gin.HandlerFunc {
	roleSet := make(map[entity.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		caller := Caller(c)
		if caller == nil {
			abortUnauthorized(c, "authentication required")
			return
		}
		if !roleSet[entity.UserRole(caller.Role)] {
			abortForbidden(c, "role not allowed")
			return
		}
		c.Next()
	}
}

// RequireAdmin 管理员权限检查中间件（便捷方法）
func RequireAdmin() gin.HandlerFunc {
	return RequirePermission(entity.PermAdminAccess)
}

// abortForbidden 终止请求并返回 403
func abortForbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"code":     403,
		"message":  msg,
		"trace_id": c.GetString("trace_id"),
	})
}
