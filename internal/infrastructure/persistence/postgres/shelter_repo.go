package postgres

import (
	"context"

	"gorm.io/gorm"

	"paw-adopt-api/internal/domain/entity"
	"paw-adopt-api/pkg/errors"
)

// ShelterRepository 收容所仓储实现
type ShelterRepository struct {
	store[entity.Shelter]
}

// NewShelterRepository 创建收容所仓储
func NewShelterRepository(client *Client) *ShelterRepository {
	return &ShelterRepository{store[entity.Shelter]{client: client, table: "shelters"}}
}

// Create 创建收容所
func (r *ShelterRepository) Create(ctx context.Context, shelter *entity.Shelter) error {
	ctx, span := tracer.Start(ctx, "postgres.ShelterRepository.Create")
	defer span.End()

	if err := r.client.dbFrom(ctx).Table(r.table).Create(shelter).Error; err != nil {
		span.RecordError(err)
		return errors.Wrap(err, errors.CodeDatabaseError, "create shelter")
	}
	return nil
}

// GetByID 按 ID 查询收容所
func (r *ShelterRepository) GetByID(ctx context.Context, id string) (*entity.Shelter, error) {
	ctx, span := tracer.Start(ctx, "postgres.ShelterRepository.GetByID")
	defer span.End()

	var shelter entity.Shelter
	err := r.client.dbFrom(ctx).Table(r.table).Where("id = ?", id).First(&shelter).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrShelterNotFound
		}
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "get shelter")
	}
	return &shelter, nil
}

// Update 全量更新收容所
func (r *ShelterRepository) Update(ctx context.Context, shelter *entity.Shelter) error {
	ctx, span := tracer.Start(ctx, "postgres.ShelterRepository.Update")
	defer span.End()

	res := r.client.dbFrom(ctx).Table(r.table).Where("id = ?", shelter.ID).Save(shelter)
	if res.Error != nil {
		span.RecordError(res.Error)
		return errors.Wrap(res.Error, errors.CodeDatabaseError, "update shelter")
	}
	if res.RowsAffected == 0 {
		return errors.ErrShelterNotFound
	}
	return nil
}

// Delete 删除收容所
func (r *ShelterRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ShelterRepository.Delete")
	defer span.End()

	res := r.client.dbFrom(ctx).Table(r.table).Where("id = ?", id).Delete(&entity.Shelter{})
	if res.Error != nil {
		span.RecordError(res.Error)
		return errors.Wrap(res.Error, errors.CodeDatabaseError, "delete shelter")
	}
	if res.RowsAffected == 0 {
		return errors.ErrShelterNotFound
	}
	return nil
}
