package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// 列表接口统一的分页协议：page从1开始计数，page_size设上限，
// 非法入参一律回落到默认值而不报错。

// 分页默认值与上限
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// PageParams 归一化后的请求分页参数
type PageParams struct {
	Page     int
	PageSize int
}

// ParsePageParams 从查询串解析分页参数并归一化
func ParsePageParams(c *gin.Context) *PageParams {
	return &PageParams{
		Page:     parsePositive(c.Query("page"), DefaultPage, 0),
		PageSize: parsePositive(c.Query("page_size"), DefaultPageSize, MaxPageSize),
	}
}

// parsePositive 解析正整数，解析失败或小于1回落默认值，
// max大于0时作为上限截断
func parsePositive(raw string, def, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

// Offset 换算SQL偏移量
func (p *PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageInfo 返回给客户端的分页信息
type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewPageInfo 根据总记录数计算分页信息
func NewPageInfo(page, pageSize int, total int64) *PageInfo {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return &PageInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
