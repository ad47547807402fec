package response

import (
	"net/http"

	"marlex/pkg/errors"
	"marlex/pkg/pagination"

	"github.com/gin-gonic/gin"
)

// Body 统一成功返回格式
type Body struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorBody 统一错误返回格式，Detail仅在非release模式下填充
type ErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Name    string `json:"name"`
	Status  int    `json:"status"`
	Detail  string `json:"detail,omitempty"`
}

// PageBody 分页返回格式
type PageBody struct {
	Success  bool                 `json:"success"`
	Data     interface{}          `json:"data,omitempty"`
	PageInfo *pagination.PageInfo `json:"page_info"`
}

// ========== 基础返回方法 ==========

// Success 成功返回
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMessage 成功返回（自定义消息）
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Body{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SuccessWithPage 分页成功返回
func SuccessWithPage(c *gin.Context, data interface{}, pageInfo *pagination.PageInfo) {
	c.JSON(http.StatusOK, PageBody{
		Success:  true,
		Data:     data,
		PageInfo: pageInfo,
	})
}

// Fail 错误返回，所有错误统一经过类别映射
func Fail(c *gin.Context, err error) {
	FailWithDetail(c, err, "")
}

// FailWithDetail 错误返回并附加调试细节，细节为空时不输出
func FailWithDetail(c *gin.Context, err error, detail string) {
	appErr := errors.From(err)
	c.JSON(appErr.Status(), ErrorBody{
		Success: false,
		Message: appErr.Message,
		Name:    appErr.Name(),
		Status:  appErr.Status(),
		Detail:  detail,
	})
}
