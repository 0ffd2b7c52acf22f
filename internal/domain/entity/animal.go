// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// AnimalGender 动物性别
type AnimalGender string

const (
	AnimalGenderMale    AnimalGender = "Male"
	AnimalGenderFemale  AnimalGender = "Female"
	AnimalGenderUnknown AnimalGender = "Unknown"
)

// AnimalStatus 动物领养状态
type AnimalStatus string

const (
	AnimalStatusAvailable AnimalStatus = "available"
	AnimalStatusPending   AnimalStatus = "pending"
	AnimalStatusAdopted   AnimalStatus = "adopted"
	AnimalStatusArchived  AnimalStatus = "archived"
)

// Animal 待领养动物实体
type Animal struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name"`
	Species     string         `json:"species"`
	Breed       string         `json:"breed,omitempty"`
	Gender      AnimalGender   `json:"gender"`
	AgeMonths   int            `json:"age_months"`
	WeightKg    float64        `json:"weight_kg"`
	Status      AnimalStatus   `json:"status"`
	Description string         `json:"description,omitempty"`
	HealthNotes string         `json:"health_notes,omitempty"`
	Photos      pq.StringArray `json:"photos,omitempty" gorm:"type:text[]"`
	ShelterID   string         `json:"shelter_id"`
	CreatedByID string         `json:"created_by_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewAnimal 创建新动物记录
func NewAnimal(name, species, shelterID, createdByID string) *Animal {
	now := time.Now()
	return &Animal{
		Name:        name,
		Species:     species,
		Gender:      AnimalGenderUnknown,
		Status:      AnimalStatusAvailable,
		ShelterID:   shelterID,
		CreatedByID: createdByID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AgeYears 返回以年为单位的年龄
func (a *Animal) AgeYears() float64 {
	return float64(a.AgeMonths) / 12.0
}

// IsAvailable 是否可领养
func (a *Animal) IsAvailable() bool {
	return a.Status == AnimalStatusAvailable
}

// SearchText 拼接用于向量化与全文索引的文本
func (a *Animal) SearchText() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Name, a.Species, a.Breed, a.Description, a.HealthNotes} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, ". ")
}
