// Package user 用户与认证应用服务
package user

import (
	"context"
	"time"

	"github.com/google/uuid"

	"paw-adopt-api/internal/config"
	"paw-adopt-api/internal/domain/entity"
	"paw-adopt-api/internal/domain/query"
	"paw-adopt-api/internal/domain/repository"
	"paw-adopt-api/pkg/errors"
	"paw-adopt-api/pkg/logger"
	"paw-adopt-api/pkg/utils"
)

// Service 用户应用服务
type Service struct {
	users  repository.UserRepository
	engine *query.Engine[entity.User]
	jwt    *utils.JWTManager
	jwtCfg config.JWTConfig
}

// NewService 创建用户应用服务
func NewService(
	users repository.UserRepository,
	engine *query.Engine[entity.User],
	jwt *utils.JWTManager,
	jwtCfg config.JWTConfig,
) *Service {
	return &Service{users: users, engine: engine, jwt: jwt, jwtCfg: jwtCfg}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

// Register 注册新用户，邮箱唯一
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*entity.User, error) {
	if existing, err := s.users.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, errors.New(errors.CodeConflict, "email already registered")
	}

	u := entity.NewUser(req.Email, req.Name)
	u.ID = uuid.NewString()
	u.Phone = req.Phone
	if err := u.SetPassword(req.Password); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternalError, "hash password")
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	User   *entity.User     `json:"user"`
	Tokens *utils.TokenPair `json:"tokens"`
}

// Login 登录并签发双 Token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.ErrUnauthorized
	}
	if !u.CheckPassword(req.Password) {
		return nil, errors.ErrUnauthorized
	}

	tokens, err := s.jwt.GenerateTokenPair(u.ID, string(u.Role), u.ShelterIDs,
		s.jwtCfg.Expiration, s.jwtCfg.RefreshExpiration)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternalError, "generate token pair")
	}

	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	if err := s.users.Update(ctx, u); err != nil {
		logger.Warn(ctx, "update last login time failed", "user_id", u.ID, "error", err)
	}
	return &LoginResponse{User: u, Tokens: tokens}, nil
}

// Refresh 用 RefreshToken 换发新的双 Token
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	claims, err := s.jwt.ParseToken(refreshToken)
	if err != nil || claims.Type != "refresh" {
		return nil, errors.ErrTokenInvalid
	}

	// 重新读取用户，角色与隶属关系可能已变化
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.ErrUnauthorized
	}
	tokens, err := s.jwt.GenerateTokenPair(u.ID, string(u.Role), u.ShelterIDs,
		s.jwtCfg.Expiration, s.jwtCfg.RefreshExpiration)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternalError, "generate token pair")
	}
	return tokens, nil
}

// Get 查询单个用户，本人或用户管理权限可见
func (s *Service) Get(ctx context.Context, caller *query.Caller, id string) (*entity.User, error) {
	if caller == nil {
		return nil, errors.ErrUnauthorized
	}
	if caller.ID != id && !entity.HasPermission(entity.UserRole(caller.Role), entity.PermUserManage) {
		return nil, errors.ErrForbidden
	}
	return s.users.GetByID(ctx, id)
}

// UpdateRequest 更新用户请求，nil 字段不修改
type UpdateRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
	Role      *string `json:"role"`
}

// Update 更新用户资料，角色变更仅用户管理权限可执行
func (s *Service) Update(ctx context.Context, caller *query.Caller, id string, req *UpdateRequest) (*entity.User, error) {
	u, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.AvatarURL != nil {
		u.AvatarURL = *req.AvatarURL
	}
	if req.Role != nil {
		if !entity.HasPermission(entity.UserRole(caller.Role), entity.PermUserManage) {
			return nil, errors.ErrForbidden
		}
		u.Role = entity.UserRole(*req.Role)
	}
	u.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// List 用户列表，Owner 标志让普通用户只能看到自己
func (s *Service) List(ctx context.Context, caller *query.Caller, crit *repository.UserCriteria) (*repository.PagedResult[entity.User], error) {
	flags := query.AccessOwner | query.AccessPermission
	items, err := s.engine.Collect(ctx, flags, caller, crit)
	if err != nil {
		return nil, err
	}
	total, err := s.engine.Count(ctx, flags, caller, crit)
	if err != nil {
		return nil, err
	}
	return repository.NewPagedResult(items, total, crit.Offset, crit.PageSize), nil
}
