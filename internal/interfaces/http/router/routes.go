// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"

	"paw-adopt-api/internal/domain/entity"
	"paw-adopt-api/internal/interfaces/http/middleware"
)

// RegisterV1Routes 注册 v1 版本路由。
// 读端点匿名可访问，查询引擎的能力标志负责数据面收紧；
// 写端点要求认证，细粒度权限在应用服务内判定。
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers) {
	// 认证管理
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}

	// 动物管理与检索
	animals := v1.Group("/animals")
	{
		animals.GET("", h.Animal.List)
		animals.GET("/:id", h.Animal.Get)
		animals.POST("/search", h.Animal.Search)

		animals.POST("", middleware.RequireAuth(), h.Animal.Create)
		animals.PUT("/:id", middleware.RequireAuth(), h.Animal.Update)
		animals.DELETE("/:id", middleware.RequireAuth(), h.Animal.Delete)
	}

	// 收容所管理
	shelters := v1.Group("/shelters")
	{
		shelters.GET("", h.Shelter.List)
		shelters.GET("/mine", middleware.RequireAuth(), h.Shelter.ListMine)
		shelters.GET("/:id", h.Shelter.Get)

		shelters.POST("", middleware.RequireAuth(), h.Shelter.Create)
		shelters.PUT("/:id", middleware.RequireAuth(), h.Shelter.Update)
		shelters.DELETE("/:id", middleware.RequireAuth(), h.Shelter.Delete)
	}

	// 领养申请
	applications := v1.Group("/applications", middleware.RequireAuth())
	{
		applications.POST("", h.Adoption.Submit)
		applications.GET("", h.Adoption.List)
		applications.GET("/:id", h.Adoption.Get)
		applications.POST("/:id/review", h.Adoption.Review)
		applications.POST("/:id/withdraw", h.Adoption.Withdraw)
	}

	// 用户管理
	users := v1.Group("/users", middleware.RequireAuth())
	{
		users.GET("/me", h.User.GetMe)
		users.PUT("/me", h.User.UpdateMe)
		users.GET("", middleware.RequirePermission(entity.PermUserManage), h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
	}
}
