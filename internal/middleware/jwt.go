package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"MontyPoker/internal/game/engine"
)

// JwtAuthMiddleware 校验 Bearer JWT，把钱包地址注入上下文。
// 支持 ?token= 查询参数，方便浏览器 WebSocket 握手携带。
func JwtAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			tokenStr = strings.TrimPrefix(h, "Bearer ")
		} else if q := c.Query("token"); q != "" {
			tokenStr = q
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}
		addr, _ := claims["sub"].(string)
		if addr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid subject"})
			return
		}

		c.Set("address", addr)
		c.Next()
	}
}

// SchedulerOnly 调度器专用令牌闸门：阶段推进与建局/回收
// 只允许持 keeper token 的调用方。玩家 JWT 过不了这道门。
func SchedulerOnly(keeperToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if keeperToken == "" || c.GetHeader("X-Keeper-Token") != keeperToken {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": engine.ErrNotScheduler.Error()})
			return
		}
		c.Next()
	}
}
