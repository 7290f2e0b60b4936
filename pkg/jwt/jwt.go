package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
)

// 角色
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Manager JWT管理器
// 只负责签发与校验，账号体系由外部认证服务维护
type Manager struct {
	secret []byte
	issuer string
	expire time.Duration
}

// NewManager 创建JWT管理器
func NewManager(secret, issuer string, expire time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		issuer: issuer,
		expire: expire,
	}
}

// Claims 自定义JWT Claims
type Claims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole 是否具备任一角色
func (c *Claims) HasRole(roles ...string) bool {
	for _, have := range c.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// GenerateToken 签发HS256 Token
func (m *Manager) GenerateToken(username string, roles ...string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expire)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   username,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", apperrors.Wrap(err, "生成Token失败")
	}
	return token, nil
}

// ParseToken 校验签名、签发方与有效期
// 过期返回ErrTokenExpired，其余失败返回ErrInvalidToken
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	if !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
