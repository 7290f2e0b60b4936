package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/jwt"
)

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[token], nil
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, GetUsername(c))
	})...)
	return r
}

func serve(r *gin.Engine, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func code(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var body struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func TestRequireAuth(t *testing.T) {
	manager := jwt.NewManager("secret", "catalog", time.Hour)
	token, err := manager.GenerateToken("alice", jwt.RoleEditor)
	require.NoError(t, err)
	revoked, err := manager.GenerateToken("bob", jwt.RoleEditor)
	require.NoError(t, err)

	auth := NewAuthMiddleware(manager, &fakeBlacklist{revoked: map[string]bool{revoked: true}})
	r := newEngine(auth.RequireAuth())

	tests := []struct {
		name   string
		header http.Header
		status int
		code   int
	}{
		{"缺少Authorization", nil, http.StatusUnauthorized, apperrors.ErrCodeUnauthorized},
		{"非Bearer格式", http.Header{"Authorization": []string{"Basic abc"}}, http.StatusUnauthorized, apperrors.ErrCodeInvalidToken},
		{"签名无效", bearer(token + "x"), http.StatusUnauthorized, apperrors.ErrCodeInvalidToken},
		{"已吊销", bearer(revoked), http.StatusUnauthorized, apperrors.ErrCodeTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, code(t, w))
		})
	}

	t.Run("通过", func(t *testing.T) {
		w := serve(r, bearer(token))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", w.Body.String())
	})

	t.Run("黑名单不可用", func(t *testing.T) {
		failing := NewAuthMiddleware(manager, &fakeBlacklist{err: apperrors.WrapCode(errors.New("dial"), apperrors.ErrCodeRedisError, "缓存服务错误")})
		w := serve(newEngine(failing.RequireAuth()), bearer(token))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, apperrors.ErrCodeRedisError, code(t, w))
	})
}

func TestRequireRole(t *testing.T) {
	manager := jwt.NewManager("secret", "catalog", time.Hour)
	auth := NewAuthMiddleware(manager, nil)
	r := newEngine(auth.RequireAuth(), auth.RequireRole(jwt.RoleAdmin))

	editor, _ := manager.GenerateToken("alice", jwt.RoleEditor)
	w := serve(r, bearer(editor))
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin, _ := manager.GenerateToken("root", jwt.RoleAdmin)
	w = serve(r, bearer(admin))
	assert.Equal(t, http.StatusOK, w.Code)

	// 未经过RequireAuth
	w = serve(newEngine(auth.RequireRole(jwt.RoleAdmin)), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := newEngine(Logger(logger))

	t.Run("生成请求ID", func(t *testing.T) {
		hook.Reset()
		w := serve(r, nil)

		requestID := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(requestID)
		assert.NoError(t, err)

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.InfoLevel, entry.Level)
		assert.Equal(t, requestID, entry.Data["request_id"])
		assert.Equal(t, http.StatusOK, entry.Data["status"])
	})

	t.Run("沿用合法的上游请求ID", func(t *testing.T) {
		id := uuid.New().String()
		w := serve(r, http.Header{RequestIDHeader: []string{id}})
		assert.Equal(t, id, w.Header().Get(RequestIDHeader))
	})

	t.Run("忽略非法的上游请求ID", func(t *testing.T) {
		w := serve(r, http.Header{RequestIDHeader: []string{"<script>"}})
		assert.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
	})

	t.Run("5xx按error记录", func(t *testing.T) {
		hook.Reset()
		failing := gin.New()
		failing.GET("/", Logger(logger), func(c *gin.Context) {
			c.Status(http.StatusInternalServerError)
		})
		serve(failing, nil)

		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	})
}
