package middleware

import (
	"marlex/pkg/errors"
	"marlex/pkg/logger"
	"marlex/pkg/response"

	"github.com/gin-gonic/gin"
)

// ErrorHandler 统一错误翻译中间件。
// 业务代码只通过 c.Error 上报错误，由这里统一映射为
// {success,message,name,status} 格式的响应体；panic恢复后
// 同样走这条通道，细节只进日志不回给客户端。
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.GetLogger().WithField("panic", r).
					WithField("path", c.Request.URL.Path).
					Error("请求处理发生panic")
				response.Fail(c, errors.Internal("服务器内部错误"))
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		if c.Writer.Written() {
			return
		}

		// 只取最后一个错误，前面的错误记日志
		last := c.Errors.Last().Err
		for _, e := range c.Errors[:len(c.Errors)-1] {
			logger.GetLogger().WithField("path", c.Request.URL.Path).
				Warnf("请求附带的前置错误: %v", e.Err)
		}

		appErr := errors.From(last)
		detail := ""
		if appErr.Kind == errors.KindInternal {
			// 内部错误的底层原因只进日志，release模式下不回给客户端
			logger.GetLogger().WithField("path", c.Request.URL.Path).
				Errorf("服务器内部错误: %v", last)
			if gin.Mode() != gin.ReleaseMode {
				detail = last.Error()
			}
		}
		response.FailWithDetail(c, appErr, detail)
	}
}
