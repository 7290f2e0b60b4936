package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/jwt"
	"github.com/xiebiao/catalog/pkg/response"
)

const claimsKey = "claims"

// Blacklist 已吊销Token查询（redis.TokenBlacklist 实现）
type Blacklist interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 1. 从Header提取Bearer Token
// 2. 检查黑名单（未启用Redis时跳过）
// 3. 校验签名与有效期
// 4. 将Claims注入Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  Blacklist
}

// NewAuthMiddleware 创建认证中间件，blacklist可以为nil
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist Blacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
	}
}

// RequireAuth 要求登录
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.Abort(c, apperrors.New(apperrors.ErrCodeInvalidToken, "Token格式错误"))
			return
		}
		tokenString := parts[1]

		if m.blacklist != nil {
			revoked, err := m.blacklist.IsRevoked(c.Request.Context(), tokenString)
			if err != nil {
				response.Abort(c, err)
				return
			}
			if revoked {
				response.Abort(c, apperrors.New(apperrors.ErrCodeTokenExpired, "Token已失效，请重新登录"))
				return
			}
		}

		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole 要求具备任一角色，须放在RequireAuth之后
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}
		if !claims.HasRole(roles...) {
			response.Abort(c, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// GetClaims 从Context获取当前用户，未登录返回nil
func GetClaims(c *gin.Context) *jwt.Claims {
	if v, exists := c.Get(claimsKey); exists {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUsername 从Context获取当前用户名
func GetUsername(c *gin.Context) string {
	if claims := GetClaims(c); claims != nil {
		return claims.Username
	}
	return ""
}
