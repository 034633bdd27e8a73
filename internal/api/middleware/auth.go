package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tcms/internal/dto"
	"tcms/internal/pkg/logger"
	"tcms/internal/service"
	"tcms/pkg/constants"
)

// SessionMiddleware 解析 Bearer Token 并把会话放入 context.
// 缺少或无效的 Token 不在这里拒绝, 由 RPC 入口按方法判断.
func SessionMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, constants.HeaderBearerPrefix) {
			c.Next()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, constants.HeaderBearerPrefix))
		session, err := authService.VerifyToken(c.Request.Context(), token)
		if err != nil {
			logger.Debug("会话Token无效", zap.String("ip", c.ClientIP()), zap.Error(err))
			c.Next()
			return
		}

		c.Set(constants.SessionContextKey, session)
		c.Next()
	}
}

// GetSession 取中间件解析出的会话, 未登录返回 nil
func GetSession(c *gin.Context) *dto.SessionInfo {
	v, ok := c.Get(constants.SessionContextKey)
	if !ok {
		return nil
	}
	session, _ := v.(*dto.SessionInfo)
	return session
}
