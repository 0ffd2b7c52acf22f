// Package adoption 领养申请应用服务
package adoption

import (
	"context"
	"time"

	"github.com/google/uuid"

	"paw-adopt-api/internal/domain/entity"
	"paw-adopt-api/internal/domain/query"
	"paw-adopt-api/internal/domain/repository"
	"paw-adopt-api/pkg/errors"
	"paw-adopt-api/pkg/logger"
)

// Service 领养申请应用服务
type Service struct {
	applications repository.ApplicationRepository
	animals      repository.AnimalRepository
	engine       *query.Engine[entity.AdoptionApplication]
	tx           repository.Transactor
}

// NewService 创建领养申请应用服务
func NewService(
	applications repository.ApplicationRepository,
	animals repository.AnimalRepository,
	engine *query.Engine[entity.AdoptionApplication],
	tx repository.Transactor,
) *Service {
	return &Service{applications: applications, animals: animals, engine: engine, tx: tx}
}

// SubmitRequest 提交领养申请请求
type SubmitRequest struct {
	AnimalID string `json:"animal_id" binding:"required"`
	Message  string `json:"message"`
}

// Submit 提交领养申请，动物须处于可领养状态
func (s *Service) Submit(ctx context.Context, caller *query.Caller, req *SubmitRequest) (*entity.AdoptionApplication, error) {
	if caller == nil {
		return nil, errors.ErrUnauthorized
	}

	animal, err := s.animals.GetByID(ctx, req.AnimalID)
	if err != nil {
		return nil, err
	}
	if !animal.IsAvailable() {
		return nil, errors.New(errors.CodeConflict, "animal is not available for adoption")
	}

	app := entity.NewAdoptionApplication(animal.ID, animal.ShelterID, caller.ID, req.Message)
	app.ID = uuid.NewString()
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, err
	}
	logger.Info(ctx, "adoption application submitted",
		"application_id", app.ID, "animal_id", animal.ID, "applicant_id", caller.ID)
	return app, nil
}

// Get 查询单条申请，仅申请人、关联收容所或审核权限可见
func (s *Service) Get(ctx context.Context, caller *query.Caller, id string) (*entity.AdoptionApplication, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireAccess(caller, app); err != nil {
		return nil, err
	}
	return app, nil
}

// ReviewRequest 审核请求
type ReviewRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

// Review 审核申请。批准时动物转入待定状态，
// 整个流转在单事务内完成。
func (s *Service) Review(ctx context.Context, caller *query.Caller, id string, req *ReviewRequest) (*entity.AdoptionApplication, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireReview(caller, app); err != nil {
		return nil, err
	}
	if app.IsFinal() {
		return nil, errors.New(errors.CodeConflict, "application already finalized")
	}

	now := time.Now()
	app.Status = entity.ApplicationStatusRejected
	if req.Approve {
		app.Status = entity.ApplicationStatusApproved
	}
	app.ReviewNote = req.Note
	app.ReviewedBy = caller.ID
	app.ReviewedAt = &now
	app.UpdatedAt = now

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.applications.Update(ctx, app); err != nil {
			return err
		}
		if !req.Approve {
			return nil
		}
		animal, err := s.animals.GetByID(ctx, app.AnimalID)
		if err != nil {
			return err
		}
		animal.Status = entity.AnimalStatusPending
		animal.UpdatedAt = now
		return s.animals.Update(ctx, animal)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// Withdraw 申请人撤回未终结的申请
func (s *Service) Withdraw(ctx context.Context, caller *query.Caller, id string) (*entity.AdoptionApplication, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller == nil || app.ApplicantID != caller.ID {
		return nil, errors.ErrForbidden
	}
	if app.IsFinal() {
		return nil, errors.New(errors.CodeConflict, "application already finalized")
	}

	now := time.Now()
	app.Status = entity.ApplicationStatusWithdrawn
	app.UpdatedAt = now
	if err := s.applications.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// List 列表查询：申请人看自己的，收容所人员看隶属收容所的，
// 审核权限看全部
func (s *Service) List(ctx context.Context, caller *query.Caller, crit *repository.ApplicationCriteria) (*repository.PagedResult[entity.AdoptionApplication], error) {
	flags := query.AccessOwner | query.AccessPermission | query.AccessAffiliation
	items, err := s.engine.Collect(ctx, flags, caller, crit)
	if err != nil {
		return nil, err
	}
	total, err := s.engine.Count(ctx, flags, caller, crit)
	if err != nil {
		return nil, err
	}
	return repository.NewPagedResult(items, total, crit.Offset, crit.PageSize), nil
}

func (s *Service) requireAccess(caller *query.Caller, app *entity.AdoptionApplication) error {
	if caller == nil {
		return errors.ErrUnauthorized
	}
	if app.ApplicantID == caller.ID {
		return nil
	}
	return s.requireReview(caller, app)
}

func (s *Service) requireReview(caller *query.Caller, app *entity.AdoptionApplication) error {
	if caller == nil {
		return errors.ErrUnauthorized
	}
	if entity.HasPermission(entity.UserRole(caller.Role), entity.PermAdminAccess) {
		return nil
	}
	if !entity.HasPermission(entity.UserRole(caller.Role), entity.PermApplicationReview) {
		return errors.ErrForbidden
	}
	for _, id := range caller.ShelterIDs {
		if id == app.ShelterID {
			return nil
		}
	}
	return errors.ErrForbidden
}
