package repository

import (
	"context"
	"time"

	"paw-adopt-api/internal/domain/entity"
	"paw-adopt-api/internal/domain/query"
)

// AnimalFields 动物实体对外字段到列的映射
var AnimalFields = query.NewFieldMap(map[string]string{
	"id":          "id",
	"name":        "name",
	"species":     "species",
	"breed":       "breed",
	"gender":      "gender",
	"ageMonths":   "age_months",
	"weightKg":    "weight_kg",
	"status":      "status",
	"description": "description",
	"healthNotes": "health_notes",
	"photos":      "photos",
	"shelter":     "shelter_id",
	"createdBy":   "created_by_id",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}, "id", "shelter_id", "created_by_id")

// AnimalScope 动物实体的授权作用域
var AnimalScope = query.Scope{
	Permission:        string(entity.PermAnimalReadAll),
	OwnerColumn:       "created_by_id",
	AffiliationColumn: "shelter_id",
}

// AnimalCriteria 动物查询条件
type AnimalCriteria struct {
	query.Criteria

	IncludeIDs   []string   `json:"include_ids,omitempty"`
	ExcludeIDs   []string   `json:"exclude_ids,omitempty"`
	ShelterIDs   []string   `json:"shelter_ids,omitempty"`
	Species      []string   `json:"species,omitempty"`
	Breeds       []string   `json:"breeds,omitempty"`
	Genders      []string   `json:"genders,omitempty"`
	Statuses     []string   `json:"statuses,omitempty"`
	MinAgeMonths *int       `json:"min_age_months,omitempty"`
	MaxAgeMonths *int       `json:"max_age_months,omitempty"`
	MinWeightKg  *float64   `json:"min_weight_kg,omitempty"`
	MaxWeightKg  *float64   `json:"max_weight_kg,omitempty"`
	NameContains string     `json:"name_contains,omitempty"`
	CreatedFrom  *time.Time `json:"created_from,omitempty"`
	CreatedTo    *time.Time `json:"created_to,omitempty"`
}

// Base 实现 query.EntityCriteria
func (c *AnimalCriteria) Base() *query.Criteria {
	return &c.Criteria
}

// BuildFilter 实现 query.EntityCriteria
func (c *AnimalCriteria) BuildFilter() (query.Filter, error) {
	var conds query.And
	if len(c.IncludeIDs) > 0 {
		conds = append(conds, query.In("id", c.IncludeIDs))
	}
	if len(c.ExcludeIDs) > 0 {
		conds = append(conds, query.NotIn("id", c.ExcludeIDs))
	}
	if len(c.ShelterIDs) > 0 {
		conds = append(conds, query.In("shelter_id", c.ShelterIDs))
	}
	if len(c.Species) > 0 {
		conds = append(conds, query.In("species", c.Species))
	}
	if len(c.Breeds) > 0 {
		conds = append(conds, query.In("breed", c.Breeds))
	}
	if len(c.Genders) > 0 {
		conds = append(conds, query.In("gender", c.Genders))
	}
	if len(c.Statuses) > 0 {
		conds = append(conds, query.In("status", c.Statuses))
	}
	if c.MinAgeMonths != nil {
		conds = append(conds, query.Gte("age_months", *c.MinAgeMonths))
	}
	if c.MaxAgeMonths != nil {
		conds = append(conds, query.Lte("age_months", *c.MaxAgeMonths))
	}
	if c.MinWeightKg != nil {
		conds = append(conds, query.Gte("weight_kg", *c.MinWeightKg))
	}
	if c.MaxWeightKg != nil {
		conds = append(conds, query.Lte("weight_kg", *c.MaxWeightKg))
	}
	if c.NameContains != "" {
		conds = append(conds, query.Contains("name", c.NameContains))
	}
	if c.CreatedFrom != nil {
		conds = append(conds, query.Gte("created_at", *c.CreatedFrom))
	}
	if c.CreatedTo != nil {
		conds = append(conds, query.Lte("created_at", *c.CreatedTo))
	}
	if len(conds) == 0 {
		return nil, nil
	}
	return conds, nil
}

// AnimalRepository 动物仓储接口
type AnimalRepository interface {
	query.Store[entity.Animal]

	Create(ctx context.Context, animal *entity.Animal) error
	GetByID(ctx context.Context, id string) (*entity.Animal, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Animal, error)
	Update(ctx context.Context, animal *entity.Animal) error
	Delete(ctx context.Context, id string) error
}
