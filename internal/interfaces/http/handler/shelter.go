package handler

import (
	"github.com/gin-gonic/gin"

	"paw-adopt-api/internal/application/shelter"
	"paw-adopt-api/internal/domain/repository"
	"paw-adopt-api/internal/interfaces/http/dto"
	"paw-adopt-api/internal/interfaces/http/middleware"
)

// ShelterHandler 收容所处理器
type ShelterHandler struct {
	shelters *shelter.Service
}

// NewShelterHandler 创建收容所处理器
func NewShelterHandler(shelters *shelter.Service) *ShelterHandler {
	return &ShelterHandler{shelters: shelters}
}

// Create 创建收容所
func (h *ShelterHandler) Create(c *gin.Context) {
	var req shelter.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	s, err := h.shelters.Create(c.Request.Context(), middleware.Caller(c), &req)
	if err != nil {
		fail(c, err)
		return
	}
	dto.Created(c, s)
}

// Get 查询单个收容所
func (h *ShelterHandler) Get(c *gin.Context) {
	s, err := h.shelters.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, s)
}

// Update 更新收容所
func (h *ShelterHandler) Update(c *gin.Context) {
	var req shelter.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	s, err := h.shelters.Update(c.Request.Context(), middleware.Caller(c), c.Param("id"), &req)
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, s)
}

// Delete 删除收容所
func (h *ShelterHandler) Delete(c *gin.Context) {
	if err := h.shelters.Delete(c.Request.Context(), middleware.Caller(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	dto.NoContent(c)
}

// List 公开收容所列表
func (h *ShelterHandler) List(c *gin.Context) {
	crit := h.bindShelterCriteria(c)

	result, err := h.shelters.List(c.Request.Context(), middleware.Caller(c), crit)
	if err != nil {
		fail(c, err)
		return
	}
	meta := dto.NewPageMeta(result.Page, result.PageSize, int(result.Total))
	dto.SuccessWithPage(c, result.Items, meta)
}

// ListMine 调用方关联的收容所列表
func (h *ShelterHandler) ListMine(c *gin.Context) {
	crit := h.bindShelterCriteria(c)

	result, err := h.shelters.ListMine(c.Request.Context(), middleware.Caller(c), crit)
	if err != nil {
		fail(c, err)
		return
	}
	meta := dto.NewPageMeta(result.Page, result.PageSize, int(result.Total))
	dto.SuccessWithPage(c, result.Items, meta)
}

func (h *ShelterHandler) bindShelterCriteria(c *gin.Context) *repository.ShelterCriteria {
	crit := &repository.ShelterCriteria{
		Cities:       dto.BindCSV(c, "cities"),
		NameContains: c.Query("name"),
		VerifiedOnly: c.Query("verified") == "true",
	}
	bindCriteria(c, &crit.Criteria)
	return crit
}
