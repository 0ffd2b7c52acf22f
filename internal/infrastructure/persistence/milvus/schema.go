package milvus

import (
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// CollectionAnimalProfiles 动物档案集合
	CollectionAnimalProfiles = "animal_profiles"

	// VectorDimension 向量维度
	VectorDimension = 1024
)

// AnimalProfilesSchema 动物档案 Collection Schema
func AnimalProfilesSchema() *entity.Schema {
	return &entity.Schema{
		CollectionName: CollectionAnimalProfiles,
		Description:    "Adoptable animal profiles for semantic search",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": "1024",
				},
			},
			{
				Name:     "shelter_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "created_by_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "species",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "breed",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "128",
				},
			},
			{
				Name:     "gender",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "16",
				},
			},
			{
				Name:     "status",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "16",
				},
			},
			{
				Name:     "age_months",
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     "weight_kg",
				DataType: entity.FieldTypeDouble,
			},
		},
	}
}

// AnimalProfile 动物档案数据结构
type AnimalProfile struct {
	ID          string    `json:"id"`
	Vector      []float32 `json:"vector"`
	ShelterID   string    `json:"shelter_id"`
	CreatedByID string    `json:"created_by_id"`
	Species     string    `json:"species"`
	Breed       string    `json:"breed"`
	Gender      string    `json:"gender"`
	Status      string    `json:"status"`
	AgeMonths   int64     `json:"age_months"`
	WeightKg    float64   `json:"weight_kg"`
}
