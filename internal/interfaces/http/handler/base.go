// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"paw-adopt-api/internal/domain/query"
	"paw-adopt-api/internal/interfaces/http/dto"
	"paw-adopt-api/pkg/errors"
	"paw-adopt-api/pkg/logger"
)

// fail 按应用错误码返回对应的 HTTP 状态，5xx 错误额外记录日志
func fail(c *gin.Context, err error) {
	appErr := errors.AsAppError(err)
	if appErr.HTTPStatus >= 500 {
		logger.Error(c.Request.Context(), "request failed", err,
			"path", c.Request.URL.Path, "method", c.Request.Method)
	}
	dto.ErrorWithCode(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Detail)
}

// bindCriteria 将分页、排序与投影查询参数写入条件基
func bindCriteria(c *gin.Context, base *query.Criteria) {
	page := dto.BindPage(c)
	base.Offset = page.Page
	base.PageSize = page.PageSize

	sort := dto.BindSort(c)
	base.SortBy = sort.SortBy
	base.SortDescending = sort.Descending

	base.Fields = dto.BindFields(c)
}
