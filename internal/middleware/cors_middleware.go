package middleware

import (
	"time"

	"marlex/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupCORS 配置跨域中间件。
// 管理端携带会话Cookie访问接口，必须允许凭证；
// 允许凭证时不能使用通配符源。
func SetupCORS(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    cfg.ExposeHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           time.Duration(cfg.MaxAge) * time.Hour,
	}

	if len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*" {
		if cfg.AllowCredentials {
			corsConfig.AllowOriginFunc = func(origin string) bool {
				return true
			}
		} else {
			corsConfig.AllowAllOrigins = true
		}
	} else {
		corsConfig.AllowOrigins = cfg.AllowOrigins
	}

	return cors.New(corsConfig)
}
