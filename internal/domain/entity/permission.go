// Package entity 定义领域实体
package entity

// Permission 权限类型
type Permission string

// 权限常量定义
const (
	PermAnimalRead        Permission = "animal:read"
	PermAnimalWrite       Permission = "animal:write"
	PermAnimalReadAll     Permission = "animal:read_all"
	PermShelterManage     Permission = "shelter:manage"
	PermApplicationRead   Permission = "application:read"
	PermApplicationReview Permission = "application:review"
	PermUserManage        Permission = "user:manage"
	PermAdminAccess       Permission = "admin:access"
)

// rolePermissions 角色-权限映射表
var rolePermissions = map[UserRole][]Permission{
	UserRoleAdmin: {
		PermAnimalRead, PermAnimalWrite, PermAnimalReadAll,
		PermShelterManage, PermApplicationRead, PermApplicationReview,
		PermUserManage, PermAdminAccess,
	},
	UserRoleStaff: {
		PermAnimalRead, PermAnimalWrite,
		PermApplicationRead, PermApplicationReview,
	},
	UserRoleAdopter: {
		PermAnimalRead, PermApplicationRead,
	},
}

// HasPermission 检查角色是否具有指定权限
func HasPermission(role UserRole, perm Permission) bool {
	permissions, ok := rolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range permissions {
		if p == perm {
			return true
		}
	}
	return false
}
