package handler

import (
	"github.com/gin-gonic/gin"

	"paw-adopt-api/internal/application/adoption"
	"paw-adopt-api/internal/domain/repository"
	"paw-adopt-api/internal/interfaces/http/dto"
	"paw-adopt-api/internal/interfaces/http/middleware"
)

// AdoptionHandler 领养申请处理器
type AdoptionHandler struct {
	adoptions *adoption.Service
}

// NewAdoptionHandler 创建领养申请处理器
func NewAdoptionHandler(adoptions *adoption.Service) *AdoptionHandler {
	return &AdoptionHandler{adoptions: adoptions}
}

// Submit 提交领养申请
// @Summary 提交领养申请
// @Tags Adoptions
// @Accept json
// @Produce json
// @Param body body adoption.SubmitRequest true "申请信息"
// @Success 201 {object} dto.Response[entity.AdoptionApplication]
// @Router /v1/applications [post]
func (h *AdoptionHandler) Submit(c *gin.Context) {
	var req adoption.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	app, err := h.adoptions.Submit(c.Request.Context(), middleware.Caller(c), &req)
	if err != nil {
		fail(c, err)
		return
	}
	dto.Created(c, app)
}

// Get 查询单条申请
func (h *AdoptionHandler) Get(c *gin.Context) {
	app, err := h.adoptions.Get(c.Request.Context(), middleware.Caller(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, app)
}

// Review 审核申请
func (h *AdoptionHandler) Review(c *gin.Context) {
	var req adoption.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	app, err := h.adoptions.Review(c.Request.Context(), middleware.Caller(c), c.Param("id"), &req)
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, app)
}

// Withdraw 撤回申请
func (h *AdoptionHandler) Withdraw(c *gin.Context) {
	app, err := h.adoptions.Withdraw(c.Request.Context(), middleware.Caller(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, app)
}

// List 申请列表
func (h *AdoptionHandler) List(c *gin.Context) {
	crit := &repository.ApplicationCriteria{
		AnimalIDs:  dto.BindCSV(c, "animal_ids"),
		ShelterIDs: dto.BindCSV(c, "shelter_ids"),
		Statuses:   dto.BindCSV(c, "statuses"),
	}
	bindCriteria(c, &crit.Criteria)

	result, err := h.adoptions.List(c.Request.Context(), middleware.Caller(c), crit)
	if err != nil {
		fail(c, err)
		return
	}
	meta := dto.NewPageMeta(result.Page, result.PageSize, int(result.Total))
	dto.SuccessWithPage(c, result.Items, meta)
}
