package repository

import (
	"context"

	"paw-adopt-api/internal/domain/entity"
	"paw-adopt-api/internal/domain/query"
)

// ApplicationFields 领养申请实体对外字段到列的映射
var ApplicationFields = query.NewFieldMap(map[string]string{
	"id":         "id",
	"animal":     "animal_id",
	"shelter":    "shelter_id",
	"applicant":  "applicant_id",
	"status":     "status",
	"message":    "message",
	"reviewNote": "review_note",
	"reviewedBy": "reviewed_by",
	"reviewedAt": "reviewed_at",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
}, "id", "animal_id", "shelter_id", "applicant_id")

// ApplicationScope 领养申请实体的授权作用域
var ApplicationScope = query.Scope{
	Permission:        string(entity.PermApplicationReview),
	OwnerColumn:       "applicant_id",
	AffiliationColumn: "shelter_id",
}

// ApplicationCriteria 领养申请查询条件
type ApplicationCriteria struct {
	query.Criteria

	IncludeIDs   []string `json:"include_ids,omitempty"`
	AnimalIDs    []string `json:"animal_ids,omitempty"`
	ShelterIDs   []string `json:"shelter_ids,omitempty"`
	ApplicantIDs []string `json:"applicant_ids,omitempty"`
	Statuses     []string `json:"statuses,omitempty"`
}

// Base 实现 query.EntityCriteria
func (c *ApplicationCriteria) Base() *query.Criteria {
	return &c.Criteria
}

// BuildFilter 实现 query.EntityCriteria
func (c *ApplicationCriteria) BuildFilter() (query.Filter, error) {
	var conds query.And
	if len(c.IncludeIDs) > 0 {
		conds = append(conds, query.In("id", c.IncludeIDs))
	}
	if len(c.AnimalIDs) > 0 {
		conds = append(conds, query.In("animal_id", c.AnimalIDs))
	}
	if len(c.ShelterIDs) > 0 {
		conds = append(conds, query.In("shelter_id", c.ShelterIDs))
	}
	if len(c.ApplicantIDs) > 0 {
		conds = append(conds, query.In("applicant_id", c.ApplicantIDs))
	}
	if len(c.Statuses) > 0 {
		conds = append(conds, query.In("status", c.Statuses))
	}
	if len(conds) == 0 {
		return nil, nil
	}
	return conds, nil
}

// ApplicationRepository 领养申请仓储接口
type ApplicationRepository interface {
	query.Store[entity.AdoptionApplication]

	Create(ctx context.Context, app *entity.AdoptionApplication) error
	GetByID(ctx context.Context, id string) (*entity.AdoptionApplication, error)
	Update(ctx context.Context, app *entity.AdoptionApplication) error
	CountActiveByAnimal(ctx context.Context, animalID string) (int64, error)
}
