package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	appcatalog "github.com/xiebiao/catalog/internal/application/catalog"
	"github.com/xiebiao/catalog/internal/domain/book"
	"github.com/xiebiao/catalog/internal/domain/vehicle"
	"github.com/xiebiao/catalog/internal/interface/http/dto"
	"github.com/xiebiao/catalog/internal/interface/http/handler"
	"github.com/xiebiao/catalog/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/metrics"
	"github.com/xiebiao/catalog/pkg/response"
)

// Deps 路由依赖
type Deps struct {
	Books    *appcatalog.UseCases[*book.Book]
	Vehicles *appcatalog.UseCases[*vehicle.Vehicle]
	Auth     *middleware.AuthMiddleware
	Logger   logrus.FieldLogger

	// MetricsPath 为空时不暴露/metrics，也不采集HTTP指标
	MetricsPath string
	Tracing     bool
}

// New 创建Gin引擎并注册路由
//
//	GET  /ping
//	GET  /metrics
//	     /api/v1/books
//	     /api/v1/vehicles
func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logrus.WithField("panic", recovered).Error("请求处理panic")
		response.Abort(c, apperrors.ErrInternal)
	}))
	if deps.Tracing {
		r.Use(middleware.Tracing())
	}
	r.Use(middleware.Logger(deps.Logger))

	if deps.MetricsPath != "" {
		metrics.InitMetrics()
		r.Use(middleware.Metrics())
		r.GET(deps.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	v1 := r.Group("/api/v1")
	{
		handler.NewResourceHandler(deps.Books, dto.BookCodec).Register(v1.Group("/books"), deps.Auth)
		handler.NewResourceHandler(deps.Vehicles, dto.VehicleCodec).Register(v1.Group("/vehicles"), deps.Auth)
	}

	return r
}
