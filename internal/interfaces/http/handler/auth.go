package handler

import (
	"github.com/gin-gonic/gin"

	"paw-adopt-api/internal/application/user"
	"paw-adopt-api/internal/interfaces/http/dto"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	users *user.Service
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(users *user.Service) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register 注册
// @Summary 注册新用户
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body user.RegisterRequest true "注册信息"
// @Success 201 {object} dto.Response[dto.UserResponse]
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	u, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	dto.Created(c, dto.ToUserResponse(u))
}

// Login 登录
// @Summary 登录并签发双 Token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body user.LoginRequest true "登录凭据"
// @Success 200 {object} dto.Response[dto.TokenResponse]
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	res, err := h.users.Login(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, dto.TokenResponse{
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		User:         dto.ToUserResponse(res.User),
	})
}

// Refresh 刷新 Token
// @Summary 用 RefreshToken 换发新的双 Token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshRequest true "刷新 Token"
// @Success 200 {object} dto.Response[dto.TokenResponse]
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	tokens, err := h.users.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, dto.TokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}
