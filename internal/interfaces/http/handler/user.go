package handler

import (
	"github.com/gin-gonic/gin"

	"paw-adopt-api/internal/application/user"
	"paw-adopt-api/internal/domain/repository"
	"paw-adopt-api/internal/interfaces/http/dto"
	"paw-adopt-api/internal/interfaces/http/middleware"
)

// UserHandler 用户处理器
type UserHandler struct {
	users *user.Service
}

// NewUserHandler 创建用户处理器
func NewUserHandler(users *user.Service) *UserHandler {
	return &UserHandler{users: users}
}

// GetMe 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags Users
// @Produce json
// @Success 200 {object} dto.Response[dto.UserResponse]
// @Router /v1/users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	caller := middleware.Caller(c)
	u, err := h.users.Get(c.Request.Context(), caller, caller.ID)
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, dto.ToUserResponse(u))
}

// UpdateMe 更新当前用户信息
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req user.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	caller := middleware.Caller(c)
	u, err := h.users.Update(c.Request.Context(), caller, caller.ID, &req)
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, dto.ToUserResponse(u))
}

// Get 查询单个用户
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), middleware.Caller(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, dto.ToUserResponse(u))
}

// Update 更新用户资料
func (h *UserHandler) Update(c *gin.Context) {
	var req user.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	u, err := h.users.Update(c.Request.Context(), middleware.Caller(c), c.Param("id"), &req)
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, dto.ToUserResponse(u))
}

// List 用户列表
func (h *UserHandler) List(c *gin.Context) {
	crit := &repository.UserCriteria{
		Roles: dto.BindCSV(c, "roles"),
	}
	bindCriteria(c, &crit.Criteria)

	result, err := h.users.List(c.Request.Context(), middleware.Caller(c), crit)
	if err != nil {
		fail(c, err)
		return
	}
	meta := dto.NewPageMeta(result.Page, result.PageSize, int(result.Total))
	dto.SuccessWithPage(c, dto.ToUserListResponse(result.Items), meta)
}
