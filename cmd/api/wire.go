//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// main.go 中的 initializeApp 是同一条依赖链的手写版本，
// 运行 `wire gen ./cmd/api` 会生成等价的 wire_gen.go。
//
// 依赖链：
// *gin.Engine 需要 → *Stores、catalog.Notifier、*middleware.AuthMiddleware
// catalog.Notifier 需要 → notification.Publisher（仅mq驱动非nil）
// *middleware.AuthMiddleware 需要 → *jwt.Manager、middleware.Blacklist（未启用Redis时为nil）

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	"github.com/xiebiao/catalog/internal/infrastructure/config"
	"github.com/xiebiao/catalog/internal/interface/http/middleware"
)

// infrastructureSet 存储与外部连接
var infrastructureSet = wire.NewSet(
	provideStores,
	providePublisher,
	provideBlacklist,
)

// interfaceSet 通知、认证与路由
var interfaceSet = wire.NewSet(
	provideNotifier,
	provideJWTManager,
	middleware.NewAuthMiddleware,
	provideRouter,
)

// InitializeApp 初始化整个应用，返回的cleanup按逆序关闭连接
func InitializeApp(cfg *config.Config) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		interfaceSet,
	)
	return nil, nil, nil
}
