package postgres

import (
	"context"

	"gorm.io/gorm"

	"paw-adopt-api/internal/domain/entity"
	"paw-adopt-api/pkg/errors"
)

// UserRepository 用户仓储实现
type UserRepository struct {
	store[entity.User]
}

// NewUserRepository 创建用户仓储
func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{store[entity.User]{client: client, table: "users"}}
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.Create")
	defer span.End()

	if err := r.client.dbFrom(ctx).Table(r.table).Create(user).Error; err != nil {
		span.RecordError(err)
		return errors.Wrap(err, errors.CodeDatabaseError, "create user")
	}
	return nil
}

// GetByID 按 ID 查询用户
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.GetByID")
	defer span.End()

	return r.getOne(ctx, "id = ?", id)
}

// GetByEmail 按邮箱查询用户
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.GetByEmail")
	defer span.End()

	return r.getOne(ctx, "email = ?", email)
}

func (r *UserRepository) getOne(ctx context.Context, cond string, arg any) (*entity.User, error) {
	var user entity.User
	err := r.client.dbFrom(ctx).Table(r.table).Where(cond, arg).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "get user")
	}
	return &user, nil
}

// Update 全量更新用户
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.Update")
	defer span.End()

	res := r.client.dbFrom(ctx).Table(r.table).Where("id = ?", user.ID).Save(user)
	if res.Error != nil {
		span.RecordError(res.Error)
		return errors.Wrap(res.Error, errors.CodeDatabaseError, "update user")
	}
	if res.RowsAffected == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}

// Delete 删除用户
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.Delete")
	defer span.End()

	res := r.client.dbFrom(ctx).Table(r.table).Where("id = ?", id).Delete(&entity.User{})
	if res.Error != nil {
		span.RecordError(res.Error)
		return errors.Wrap(res.Error, errors.CodeDatabaseError, "delete user")
	}
	if res.RowsAffected == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}
