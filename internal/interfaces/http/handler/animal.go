package handler

import (
	"github.com/gin-gonic/gin"

	"paw-adopt-api/internal/application/animal"
	"paw-adopt-api/internal/domain/repository"
	"paw-adopt-api/internal/interfaces/http/dto"
	"paw-adopt-api/internal/interfaces/http/middleware"
)

// AnimalHandler 动物处理器
type AnimalHandler struct {
	animals *animal.Service
}

// NewAnimalHandler 创建动物处理器
func NewAnimalHandler(animals *animal.Service) *AnimalHandler {
	return &AnimalHandler{animals: animals}
}

// Create 创建动物记录
// @Summary 创建动物记录
// @Tags Animals
// @Accept json
// @Produce json
// @Param body body animal.CreateRequest true "动物信息"
// @Success 201 {object} dto.Response[entity.Animal]
// @Router /v1/animals [post]
func (h *AnimalHandler) Create(c *gin.Context) {
	var req animal.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	a, err := h.animals.Create(c.Request.Context(), middleware.Caller(c), &req)
	if err != nil {
		fail(c, err)
		return
	}
	dto.Created(c, a)
}

// Get 查询单条动物记录
// @Summary 查询单条动物记录
// @Tags Animals
// @Produce json
// @Param id path string true "动物 ID"
// @Success 200 {object} dto.Response[entity.Animal]
// @Router /v1/animals/{id} [get]
func (h *AnimalHandler) Get(c *gin.Context) {
	a, err := h.animals.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, a)
}

// Update 更新动物记录
func (h *AnimalHandler) Update(c *gin.Context) {
	var req animal.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	a, err := h.animals.Update(c.Request.Context(), middleware.Caller(c), c.Param("id"), &req)
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, a)
}

// Delete 删除动物记录
func (h *AnimalHandler) Delete(c *gin.Context) {
	if err := h.animals.Delete(c.Request.Context(), middleware.Caller(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	dto.NoContent(c)
}

// List 结构化列表查询
// @Summary 动物列表
// @Description 支持过滤、排序、字段投影与分页的结构化查询
// @Tags Animals
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Param sort query string false "排序字段，减号前缀为降序"
// @Param fields query string false "投影字段，逗号分隔"
// @Success 200 {object} dto.Response[[]entity.Animal]
// @Router /v1/animals [get]
func (h *AnimalHandler) List(c *gin.Context) {
	crit := &repository.AnimalCriteria{
		ShelterIDs:   dto.BindCSV(c, "shelter_ids"),
		Species:      dto.BindCSV(c, "species"),
		Breeds:       dto.BindCSV(c, "breeds"),
		Genders:      dto.BindCSV(c, "genders"),
		Statuses:     dto.BindCSV(c, "statuses"),
		MinAgeMonths: dto.BindOptionalInt(c, "min_age_months"),
		MaxAgeMonths: dto.BindOptionalInt(c, "max_age_months"),
		MinWeightKg:  dto.BindOptionalFloat(c, "min_weight_kg"),
		MaxWeightKg:  dto.BindOptionalFloat(c, "max_weight_kg"),
		NameContains: c.Query("name"),
	}
	bindCriteria(c, &crit.Criteria)

	result, err := h.animals.List(c.Request.Context(), middleware.Caller(c), crit)
	if err != nil {
		fail(c, err)
		return
	}
	meta := dto.NewPageMeta(result.Page, result.PageSize, int(result.Total))
	dto.SuccessWithPage(c, result.Items, meta)
}

// Search 混合检索
// @Summary 混合检索可领养动物
// @Description 向量与全文双路并发检索后融合排序
// @Tags Animals
// @Accept json
// @Produce json
// @Param body body animal.SearchRequest true "检索请求"
// @Success 200 {object} dto.Response[[]animal.SearchMatch]
// @Router /v1/animals/search [post]
func (h *AnimalHandler) Search(c *gin.Context) {
	var req animal.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	matches, err := h.animals.Search(c.Request.Context(), middleware.Caller(c), &req)
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, matches)
}
