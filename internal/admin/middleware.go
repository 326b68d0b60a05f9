package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SlpAus/what-beats-backend/pkg/token"
)

// AuthMiddleware 校验Bearer管理员令牌，失败的请求一律403。
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "缺少管理员令牌"})
			return
		}
		username, err := token.ValidateAdminToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "管理员令牌无效或已过期"})
			return
		}
		c.Set("admin_username", username)
		c.Next()
	}
}
