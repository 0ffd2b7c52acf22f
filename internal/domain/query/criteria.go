package query

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"paw-adopt-api/pkg/errors"
)

// Criteria 调用方提供的查询描述基础部分。
// Offset 为 1 起始的页号，换算规则见 Engine.paginate。
type Criteria struct {
	Offset         int      `json:"offset"`
	PageSize       int      `json:"page_size"`
	Fields         []string `json:"fields,omitempty"`
	SortBy         []string `json:"sort_by,omitempty"`
	SortDescending bool     `json:"sort_descending"`
	FreeTextQuery  string   `json:"free_text_query,omitempty"`
}

// Validate 校验基础查询参数
func (c *Criteria) Validate() error {
	if c.Offset < 0 {
		return errors.New(errors.CodeInvalidParam, "offset must be non-negative")
	}
	if c.PageSize <= 0 {
		return errors.New(errors.CodeInvalidParam, "page size must be positive")
	}
	return nil
}

// Hash 生成用于缓存键的稳定摘要
func (c *Criteria) Hash(extra ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "o=%d;p=%d;d=%t;q=%s;", c.Offset, c.PageSize, c.SortDescending, c.FreeTextQuery)
	b.WriteString("f=" + strings.Join(c.Fields, ",") + ";")
	b.WriteString("s=" + strings.Join(c.SortBy, ",") + ";")
	for _, e := range extra {
		b.WriteString(e + ";")
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:16])
}

// EntityCriteria 各实体查询条件需实现的接口：
// 暴露基础部分并将实体特有的过滤字段编译为存储无关的 Filter。
type EntityCriteria interface {
	Base() *Criteria
	BuildFilter() (Filter, error)
}
