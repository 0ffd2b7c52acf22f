package repository

import (
	"context"

	"paw-adopt-api/internal/domain/entity"
	"paw-adopt-api/internal/domain/query"
)

// ShelterFields 收容所实体对外字段到列的映射
var ShelterFields = query.NewFieldMap(map[string]string{
	"id":          "id",
	"name":        "name",
	"city":        "city",
	"address":     "address",
	"phone":       "phone",
	"email":       "email",
	"description": "description",
	"verified":    "verified",
	"createdBy":   "created_by_id",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}, "id", "created_by_id")

// ShelterScope 收容所实体的授权作用域
var ShelterScope = query.Scope{
	Permission:        string(entity.PermShelterManage),
	OwnerColumn:       "created_by_id",
	AffiliationColumn: "id",
}

// ShelterCriteria 收容所查询条件
type ShelterCriteria struct {
	query.Criteria

	IncludeIDs   []string `json:"include_ids,omitempty"`
	Cities       []string `json:"cities,omitempty"`
	NameContains string   `json:"name_contains,omitempty"`
	VerifiedOnly bool     `json:"verified_only,omitempty"`
}

// Base 实现 query.EntityCriteria
func (c *ShelterCriteria) Base() *query.Criteria {
	return &c.Criteria
}

// BuildFilter 实现 query.EntityCriteria
func (c *ShelterCriteria) BuildFilter() (query.Filter, error) {
	var conds query.And
	if len(c.IncludeIDs) > 0 {
		conds = append(conds, query.In("id", c.IncludeIDs))
	}
	if len(c.Cities) > 0 {
		conds = append(conds, query.In("city", c.Cities))
	}
	if c.NameContains != "" {
		conds = append(conds, query.Contains("name", c.NameContains))
	}
	if c.VerifiedOnly {
		conds = append(conds, query.Eq("verified", true))
	}
	if len(conds) == 0 {
		return nil, nil
	}
	return conds, nil
}

// ShelterRepository 收容所仓储接口
type ShelterRepository interface {
	query.Store[entity.Shelter]

	Create(ctx context.Context, shelter *entity.Shelter) error
	GetByID(ctx context.Context, id string) (*entity.Shelter, error)
	Update(ctx context.Context, shelter *entity.Shelter) error
	Delete(ctx context.Context, id string) error
}
