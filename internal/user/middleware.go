package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	cookieName   = "player_id"
	contextKey   = "player_id"
	cookieMaxAge = 365 * 24 * 60 * 60
)

// IdentifyMiddleware 为每个访客维持一个匿名玩家ID。
// 没有合法Cookie的请求会被签发一个新ID，后续请求凭它完成会话归属判定。
func IdentifyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, err := c.Cookie(cookieName)
		if err != nil || !isValidPlayerID(playerID) {
			id, genErr := uuid.NewV7()
			if genErr != nil {
				// 无法生成ID时放行为匿名请求，归属判定自动跳过
				c.Next()
				return
			}
			playerID = id.String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, playerID, cookieMaxAge, "/", "", false, true)
		}
		c.Set(contextKey, playerID)
		c.Next()
	}
}

// GetPlayerID 从请求上下文中取出玩家ID，没有时返回空串。
func GetPlayerID(c *gin.Context) string {
	return c.GetString(contextKey)
}

func isValidPlayerID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
