// Package shelter 收容所应用服务
package shelter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"paw-adopt-api/internal/domain/entity"
	"paw-adopt-api/internal/domain/query"
	"paw-adopt-api/internal/domain/repository"
	"paw-adopt-api/pkg/errors"
	"paw-adopt-api/pkg/logger"
)

// Service 收容所应用服务
type Service struct {
	shelters repository.ShelterRepository
	users    repository.UserRepository
	engine   *query.Engine[entity.Shelter]
	tx       repository.Transactor
}

// NewService 创建收容所应用服务
func NewService(
	shelters repository.ShelterRepository,
	users repository.UserRepository,
	engine *query.Engine[entity.Shelter],
	tx repository.Transactor,
) *Service {
	return &Service{shelters: shelters, users: users, engine: engine, tx: tx}
}

// CreateRequest 创建收容所请求
type CreateRequest struct {
	Name        string `json:"name" binding:"required"`
	City        string `json:"city" binding:"required"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Description string `json:"description"`
}

// Create 创建收容所并将创建者加入隶属关系
func (s *Service) Create(ctx context.Context, caller *query.Caller, req *CreateRequest) (*entity.Shelter, error) {
	if caller == nil {
		return nil, errors.ErrUnauthorized
	}

	shelter := entity.NewShelter(req.Name, req.City, caller.ID)
	shelter.ID = uuid.NewString()
	shelter.Address = req.Address
	shelter.Phone = req.Phone
	shelter.Email = req.Email
	shelter.Description = req.Description

	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.shelters.Create(ctx, shelter); err != nil {
			return err
		}
		user, err := s.users.GetByID(ctx, caller.ID)
		if err != nil {
			return err
		}
		user.ShelterIDs = append(user.ShelterIDs, shelter.ID)
		user.UpdatedAt = time.Now()
		return s.users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "shelter created", "shelter_id", shelter.ID, "created_by", caller.ID)
	return shelter, nil
}

// Get 查询单个收容所
func (s *Service) Get(ctx context.Context, id string) (*entity.Shelter, error) {
	return s.shelters.GetByID(ctx, id)
}

// UpdateRequest 更新收容所请求，nil 字段不修改
type UpdateRequest struct {
	Name        *string `json:"name"`
	City        *string `json:"city"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Description *string `json:"description"`
	Verified    *bool   `json:"verified"`
}

// Update 更新收容所，认证状态仅管理权限可改
func (s *Service) Update(ctx context.Context, caller *query.Caller, id string, req *UpdateRequest) (*entity.Shelter, error) {
	shelter, err := s.shelters.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireManage(caller, shelter); err != nil {
		return nil, err
	}

	if req.Name != nil {
		shelter.Name = *req.Name
	}
	if req.City != nil {
		shelter.City = *req.City
	}
	if req.Address != nil {
		shelter.Address = *req.Address
	}
	if req.Phone != nil {
		shelter.Phone = *req.Phone
	}
	if req.Email != nil {
		shelter.Email = *req.Email
	}
	if req.Description != nil {
		shelter.Description = *req.Description
	}
	if req.Verified != nil {
		if !entity.HasPermission(entity.UserRole(caller.Role), entity.PermShelterManage) {
			return nil, errors.ErrForbidden
		}
		shelter.Verified = *req.Verified
	}
	shelter.UpdatedAt = time.Now()

	if err := s.shelters.Update(ctx, shelter); err != nil {
		return nil, err
	}
	return shelter, nil
}

// Delete 删除收容所
func (s *Service) Delete(ctx context.Context, caller *query.Caller, id string) error {
	shelter, err := s.shelters.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireManage(caller, shelter); err != nil {
		return err
	}
	return s.shelters.Delete(ctx, id)
}

// List 列表查询，经通用查询引擎执行。公开列表不加授权限制，
// 管理视图由调用方传入 flags 控制。
func (s *Service) List(ctx context.Context, caller *query.Caller, crit *repository.ShelterCriteria) (*repository.PagedResult[entity.Shelter], error) {
	items, err := s.engine.Collect(ctx, query.AccessNone, caller, crit)
	if err != nil {
		return nil, err
	}
	total, err := s.engine.Count(ctx, query.AccessNone, caller, crit)
	if err != nil {
		return nil, err
	}
	return repository.NewPagedResult(items, total, crit.Offset, crit.PageSize), nil
}

// ListMine 调用方关联的收容所：创建的或隶属的
func (s *Service) ListMine(ctx context.Context, caller *query.Caller, crit *repository.ShelterCriteria) (*repository.PagedResult[entity.Shelter], error) {
	flags := query.AccessOwner | query.AccessPermission | query.AccessAffiliation
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

func (s *Service) requireManage(caller *query.Caller, shelter *entity.Shelter) error {
	if caller == nil {
		return errors.ErrUnauthorized
	}
	if entity.HasPermission(entity.UserRole(caller.Role), entity.PermShelterManage) {
		return nil
	}
	if shelter.CreatedByID == caller.ID {
		return nil
	}
	for _, id := range caller.ShelterIDs {
		if id == shelter.ID {
			return nil
		}
	}
	return errors.ErrForbidden
}
