// Package entity 定义领域实体
package entity

import (
	"time"
)

// Shelter 收容所实体
type Shelter struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Description string    `json:"description,omitempty"`
	Verified    bool      `json:"verified"`
	CreatedByID string    `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewShelter 创建新收容所
func NewShelter(name, city, createdByID string) *Shelter {
	now := time.Now()
	return &Shelter{
		Name:        name,
		City:        city,
		CreatedByID: createdByID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
