package postgres

import (
	"context"

	"gorm.io/gorm"

	"paw-adopt-api/internal/domain/entity"
	"paw-adopt-api/pkg/errors"
)

// ApplicationRepository 领养申请仓储实现
type ApplicationRepository struct {
	store[entity.AdoptionApplication]
}

// NewApplicationRepository 创建领养申请仓储
func NewApplicationRepository(client *Client) *ApplicationRepository {
	return &ApplicationRepository{store[entity.AdoptionApplication]{client: client, table: "adoption_applications"}}
}

// Create 创建领养申请
func (r *ApplicationRepository) Create(ctx context.Context, app *entity.AdoptionApplication) error {
	ctx, span := tracer.Start(ctx, "postgres.ApplicationRepository.Create")
	defer span.End()

	if err := r.client.dbFrom(ctx).Table(r.table).Create(app).Error; err != nil {
		span.RecordError(err)
		return errors.Wrap(err, errors.CodeDatabaseError, "create adoption application")
	}
	return nil
}

// GetByID 按 ID 查询领养申请
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*entity.AdoptionApplication, error) {
	ctx, span := tracer.Start(ctx, "postgres.ApplicationRepository.GetByID")
	defer span.End()

	var app entity.AdoptionApplication
	err := r.client.dbFrom(ctx).Table(r.table).Where("id = ?", id).First(&app).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrApplicationNotFound
		}
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "get adoption application")
	}
	return &app, nil
}

// Update 全量更新领养申请
func (r *ApplicationRepository) Update(ctx context.Context, app *entity.AdoptionApplication) error {
	ctx, span := tracer.Start(ctx, "postgres.ApplicationRepository.Update")
	defer span.End()

	res := r.client.dbFrom(ctx).Table(r.table).Where("id = ?", app.ID).Save(app)
	if res.Error != nil {
		span.RecordError(res.Error)
		return errors.Wrap(res.Error, errors.CodeDatabaseError, "update adoption application")
	}
	if res.RowsAffected == 0 {
		return errors.ErrApplicationNotFound
	}
	return nil
}

// CountActiveByAnimal 统计某动物的未终结申请数
func (r *ApplicationRepository) CountActiveByAnimal(ctx context.Context, animalID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.ApplicationRepository.CountActiveByAnimal")
	defer span.End()

	var total int64
	err := r.client.dbFrom(ctx).Table(r.table).
		Where("animal_id = ? AND status IN ?", animalID, []string{
			string(entity.ApplicationStatusPending),
			string(entity.ApplicationStatusReviewing),
		}).
		Count(&total).Error
	if err != nil {
		span.RecordError(err)
		return 0, errors.Wrap(err, errors.CodeDatabaseError, "count active applications")
	}
	return total, nil
}
