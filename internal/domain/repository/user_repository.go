package repository

import (
	"context"

	"paw-adopt-api/internal/domain/entity"
	"paw-adopt-api/internal/domain/query"
)

// UserFields 用户实体对外字段到列的映射
var UserFields = query.NewFieldMap(map[string]string{
	"id":        "id",
	"email":     "email",
	"name":      "name",
	"phone":     "phone",
	"role":      "role",
	"shelters":  "shelter_ids",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}, "id")

// UserScope 用户实体的授权作用域
var UserScope = query.Scope{
	Permission:  string(entity.PermUserManage),
	OwnerColumn: "id",
}

// UserCriteria 用户查询条件
type UserCriteria struct {
	query.Criteria

	IncludeIDs []string `json:"include_ids,omitempty"`
	Roles      []string `json:"roles,omitempty"`
	Emails     []string `json:"emails,omitempty"`
}

// Base 实现 query.EntityCriteria
func (c *UserCriteria) Base() *query.Criteria {
	return &c.Criteria
}

// BuildFilter 实现 query.EntityCriteria
func (c *UserCriteria) BuildFilter() (query.Filter, error) {
	var conds query.And
	if len(c.IncludeIDs) > 0 {
		conds = append(conds, query.In("id", c.IncludeIDs))
	}
	if len(c.Roles) > 0 {
		conds = append(conds, query.In("role", c.Roles))
	}
	if len(c.Emails) > 0 {
		conds = append(conds, query.In("email", c.Emails))
	}
	if len(conds) == 0 {
		return nil, nil
	}
	return conds, nil
}

// UserRepository 用户仓储接口
type UserRepository interface {
	query.Store[entity.User]

	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
}
