package shared

import (
	"strconv"
	"strings"

	"github.com/built-mlm/internal/http/response"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageQuery 列表接口的 page/page_size 参数
type PageQuery struct {
	Page     int
	PageSize int
}

// ParsePageQuery 读取分页参数；非法页码回到第 1 页，缺省页长用 defaultSize，超长截到 MaxPageSize
func ParsePageQuery(c *gin.Context, defaultSize int) PageQuery {
	if defaultSize <= 0 || defaultSize > MaxPageSize {
		defaultSize = DefaultPageSize
	}
	q := PageQuery{
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	}
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.PageSize <= 0:
		q.PageSize = defaultSize
	case q.PageSize > MaxPageSize:
		q.PageSize = MaxPageSize
	}
	return q
}

// Pagination 按总数生成响应分页信息
func (q PageQuery) Pagination(total int64) response.Pagination {
	return response.BuildPagination(q.Page, q.PageSize, total)
}

func queryInt(c *gin.Context, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(name)))
	if err != nil {
		return 0
	}
	return n
}
