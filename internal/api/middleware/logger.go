package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tcms/internal/pkg/logger"
)

// LoggerMiddleware 访问日志, 已登录时带上用户名
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		cost := time.Since(start)
		fields := []zap.Field{
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
		}
		if session := GetSession(c); session != nil {
			fields = append(fields, zap.String("user", session.Username))
		}
		if method, ok := c.Get(RPCMethodKey); ok {
			fields = append(fields, zap.Any("rpc_method", method))
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields = append(fields, zap.String("errors", errs))
		}

		logger.Info(fmt.Sprintf("%s %s %s %d %.3fs", c.Request.Proto, c.Request.Method, path, c.Writer.Status(), cost.Seconds()), fields...)
	}
}

// RPCMethodKey RPC 入口记录方法名用的 gin context key
const RPCMethodKey = "rpc_method"
