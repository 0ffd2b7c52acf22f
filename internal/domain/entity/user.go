// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// UserRole 用户角色
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleStaff   UserRole = "staff"
	UserRoleAdopter UserRole = "adopter"
)

// User 用户实体
type User struct {
	ID           string         `json:"id" gorm:"primaryKey"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"` // 不在 JSON 中暴露
	Name         string         `json:"name"`
	Phone        string         `json:"phone,omitempty"`
	AvatarURL    string         `json:"avatar_url,omitempty"`
	Role         UserRole       `json:"role"`
	ShelterIDs   pq.StringArray `json:"shelter_ids,omitempty" gorm:"type:text[]"` // 所属收容所（staff）
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// NewUser 创建新用户
func NewUser(email, name string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Name:      name,
		Role:      UserRoleAdopter,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin 检查用户是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// AffiliatedWith 检查用户是否隶属于指定收容所
func (u *User) AffiliatedWith(shelterID string) bool {
	for _, id := range u.ShelterIDs {
		if id == shelterID {
			return true
		}
	}
	return false
}

// SetPassword 设置并散列密码
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword 校验密码
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
