package handler

import (
	"net/http"
	"net/textproto"

	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/catalog/internal/application/catalog"
	"github.com/xiebiao/catalog/internal/domain/catalog"
	"github.com/xiebiao/catalog/internal/interface/http/dto"
	"github.com/xiebiao/catalog/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/jwt"
	"github.com/xiebiao/catalog/pkg/response"
)

var ifMatchHeader = textproto.CanonicalMIMEHeaderKey("If-Match")

// ResourceHandler 一个资源族的REST处理器（图书、车辆共用）
// 版本号通过 ETag / If-Match / If-None-Match 头传递，格式为带引号的十进制数
type ResourceHandler[D catalog.Document] struct {
	useCases *appcatalog.UseCases[D]
	codec    dto.Codec[D]
}

// NewResourceHandler 创建资源处理器
func NewResourceHandler[D catalog.Document](useCases *appcatalog.UseCases[D], codec dto.Codec[D]) *ResourceHandler[D] {
	return &ResourceHandler[D]{useCases: useCases, codec: codec}
}

// Register 注册路由
//
//	GET    /         公开
//	GET    /:id      公开
//	POST   /         admin、editor
//	PUT    /:id      admin、editor
//	DELETE /:id      admin
func (h *ResourceHandler[D]) Register(rg *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)

	writers := rg.Group("", auth.RequireAuth(), auth.RequireRole(jwt.RoleAdmin, jwt.RoleEditor))
	{
		writers.POST("", h.Create)
		writers.PUT("/:id", h.Update)
	}

	rg.DELETE("/:id", auth.RequireAuth(), auth.RequireRole(jwt.RoleAdmin), h.Delete)
}

// List 按查询参数检索，同名参数只取第一个值
// @Router /api/v1/{family} [get]
func (h *ResourceHandler[D]) List(c *gin.Context) {
	criteria := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			criteria[key] = values[0]
		}
	}

	docs, err := h.useCases.List.Execute(c.Request.Context(), criteria)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, h.codec.RenderList(docs))
}

// Get 查询单个资源，If-None-Match与当前版本一致时返回304
// @Router /api/v1/{family}/{id} [get]
func (h *ResourceHandler[D]) Get(c *gin.Context) {
	d, err := h.useCases.Get.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	etag := catalog.FormatVersion(d.Metadata().Version)
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	response.Success(c, h.codec.Render(d))
}

// Create 创建资源，成功返回201和Location
// @Router /api/v1/{family} [post]
func (h *ResourceHandler[D]) Create(c *gin.Context) {
	req := h.codec.NewRequest()
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, apperrors.New(apperrors.ErrCodeBindError, "参数格式错误: "+err.Error()))
		return
	}

	result, err := h.useCases.Create.Execute(c.Request.Context(), req.ToEntity())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("ETag", catalog.FormatVersion(result.Version))
	response.Created(c, c.Request.URL.Path+"/"+result.ID, result)
}

// Update 整体替换资源，必须携带If-Match
// @Router /api/v1/{family}/{id} [put]
func (h *ResourceHandler[D]) Update(c *gin.Context) {
	req := h.codec.NewRequest()
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, apperrors.New(apperrors.ErrCodeBindError, "参数格式错误: "+err.Error()))
		return
	}

	result, err := h.useCases.Update.Execute(c.Request.Context(), appcatalog.UpdateRequest[D]{
		ID:       c.Param("id"),
		Document: req.ToEntity(),
		IfMatch:  ifMatch(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("ETag", catalog.FormatVersion(result.Version))
	response.NoContent(c)
}

// Delete 删除资源，资源不存在时同样返回204
// @Router /api/v1/{family}/{id} [delete]
func (h *ResourceHandler[D]) Delete(c *gin.Context) {
	if _, err := h.useCases.Delete.Execute(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ifMatch 区分“未携带”（nil）与“携带空值”
func ifMatch(c *gin.Context) *string {
	values, ok := c.Request.Header[ifMatchHeader]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
