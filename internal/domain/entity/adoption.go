// Package entity 定义领域实体
package entity

import (
	"time"
)

// ApplicationStatus 领养申请状态
type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusReviewing ApplicationStatus = "reviewing"
	ApplicationStatusApproved  ApplicationStatus = "approved"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn ApplicationStatus = "withdrawn"
)

// AdoptionApplication 领养申请实体
type AdoptionApplication struct {
	ID          string            `json:"id" gorm:"primaryKey"`
	AnimalID    string            `json:"animal_id"`
	ShelterID   string            `json:"shelter_id"`
	ApplicantID string            `json:"applicant_id"`
	Status      ApplicationStatus `json:"status"`
	Message     string            `json:"message,omitempty"`
	ReviewNote  string            `json:"review_note,omitempty"`
	ReviewedBy  string            `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time        `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewAdoptionApplication 创建新领养申请
func NewAdoptionApplication(animalID, shelterID, applicantID, message string) *AdoptionApplication {
	now := time.Now()
	return &AdoptionApplication{
		AnimalID:    animalID,
		ShelterID:   shelterID,
		ApplicantID: applicantID,
		Status:      ApplicationStatusPending,
		Message:     message,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsFinal 状态是否已终结
func (a *AdoptionApplication) IsFinal() bool {
	switch a.Status {
	case ApplicationStatusApproved, ApplicationStatusRejected, ApplicationStatusWithdrawn:
		return true
	}
	return false
}
