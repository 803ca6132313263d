package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/d60-Lab/inkwell/pkg/response"
)

const userIDKey = "auth.userID"

// Auth 校验会话令牌并把解析出的用户 ID 挂到请求上下文。
// 令牌签发属于认证服务，这里只做验签取身份。
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		if !strings.HasPrefix(raw, "Bearer ") {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		token, err := jwt.Parse(strings.TrimPrefix(raw, "Bearer "), func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			response.Unauthorized(c, "invalid token")
			return
		}
		sub, err := token.Claims.GetSubject()
		if err != nil {
			response.Unauthorized(c, "invalid token")
			return
		}
		uid, err := strconv.ParseInt(sub, 10, 64)
		if err != nil || uid <= 0 {
			response.Unauthorized(c, "invalid token")
			return
		}
		c.Set(userIDKey, uid)
		c.Next()
	}
}

// CurrentUserID 取出已认证的用户 ID；未认证路由上调用返回 0。
func CurrentUserID(c *gin.Context) int64 {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0
	}
	id, _ := v.(int64)
	return id
}
