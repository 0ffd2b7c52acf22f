package postgres

import (
	"context"

	"gorm.io/gorm"

	"paw-adopt-api/internal/domain/entity"
	"paw-adopt-api/pkg/errors"
)

// AnimalRepository 动物仓储实现
type AnimalRepository struct {
	store[entity.Animal]
}

// NewAnimalRepository 创建动物仓储
func NewAnimalRepository(client *Client) *AnimalRepository {
	return &AnimalRepository{store[entity.Animal]{client: client, table: "animals"}}
}

// Create 创建动物记录
func (r *AnimalRepository) Create(ctx context.Context, animal *entity.Animal) error {
	ctx, span := tracer.Start(ctx, "postgres.AnimalRepository.Create")
	defer span.End()

	if err := r.client.dbFrom(ctx).Table(r.table).Create(animal).Error; err != nil {
		span.RecordError(err)
		return errors.Wrap(err, errors.CodeDatabaseError, "create animal")
	}
	return nil
}

// GetByID 按 ID 查询动物
func (r *AnimalRepository) GetByID(ctx context.Context, id string) (*entity.Animal, error) {
	ctx, span := tracer.Start(ctx, "postgres.AnimalRepository.GetByID")
	defer span.End()

	var animal entity.Animal
	err := r.client.dbFrom(ctx).Table(r.table).Where("id = ?", id).First(&animal).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrAnimalNotFound
		}
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "get animal")
	}
	return &animal, nil
}

// GetByIDs 批量查询动物，缺失的 ID 不报错
func (r *AnimalRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Animal, error) {
	ctx, span := tracer.Start(ctx, "postgres.AnimalRepository.GetByIDs")
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}
	var animals []*entity.Animal
	err := r.client.dbFrom(ctx).Table(r.table).Where("id IN ?", ids).Find(&animals).Error
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "get animals by ids")
	}
	return animals, nil
}

// Update 全量更新动物记录
func (r *AnimalRepository) Update(ctx context.Context, animal *entity.Animal) error {
	ctx, span := tracer.Start(ctx, "postgres.AnimalRepository.Update")
	defer span.End()

	res := r.client.dbFrom(ctx).Table(r.table).Where("id = ?", animal.ID).Save(animal)
	if res.Error != nil {
		span.RecordError(res.Error)
		return errors.Wrap(res.Error, errors.CodeDatabaseError, "update animal")
	}
	if res.RowsAffected == 0 {
		return errors.ErrAnimalNotFound
	}
	return nil
}

// Delete 删除动物记录
func (r *AnimalRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.AnimalRepository.Delete")
	defer span.End()

	res := r.client.dbFrom(ctx).Table(r.table).Where("id = ?", id).Delete(&entity.Animal{})
	if res.Error != nil {
		span.RecordError(res.Error)
		return errors.Wrap(res.Error, errors.CodeDatabaseError, "delete animal")
	}
	if res.RowsAffected == 0 {
		return errors.ErrAnimalNotFound
	}
	return nil
}
