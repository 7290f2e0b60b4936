package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	appcatalog "github.com/xiebiao/catalog/internal/application/catalog"
	"github.com/xiebiao/catalog/internal/domain/book"
	"github.com/xiebiao/catalog/internal/domain/catalog"
	"github.com/xiebiao/catalog/internal/domain/vehicle"
	"github.com/xiebiao/catalog/internal/infrastructure/config"
	"github.com/xiebiao/catalog/internal/infrastructure/notification"
	"github.com/xiebiao/catalog/internal/infrastructure/persistence/bolt"
	"github.com/xiebiao/catalog/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/catalog/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/catalog/internal/interface/http/middleware"
	"github.com/xiebiao/catalog/internal/interface/http/router"
	"github.com/xiebiao/catalog/pkg/jwt"
	"github.com/xiebiao/catalog/pkg/mq"
)

// 依赖注入链：
// Store ← WriteEngine/ReadEngine ← UseCases ← ResourceHandler ← Router
// 每个provider返回的cleanup按创建的逆序执行

// Stores 两个资源族的存储
type Stores struct {
	Books    catalog.Store[*book.Book]
	Vehicles catalog.Store[*vehicle.Vehicle]
}

// provideStores 按storage.driver创建存储
func provideStores(cfg *config.Config) (*Stores, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverBolt:
		db, err := bolt.Open(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() { db.Close() }

		books, err := bolt.NewDocumentStore(db, book.NewFamily(), func() *book.Book { return &book.Book{} })
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		vehicles, err := bolt.NewDocumentStore(db, vehicle.NewFamily(), func() *vehicle.Vehicle { return &vehicle.Vehicle{} })
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		return &Stores{Books: books, Vehicles: vehicles}, cleanup, nil

	case config.DriverMySQL, config.DriverSQLite:
		db, cleanup, err := provideDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		// SQLite没有独立的迁移流程，启动时自动建表
		if cfg.Storage.Driver == config.DriverSQLite {
			if err := mysql.Migrate(db); err != nil {
				cleanup()
				return nil, nil, err
			}
		}
		return &Stores{Books: mysql.NewBookStore(db), Vehicles: mysql.NewVehicleStore(db)}, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("不支持的存储驱动: %s", cfg.Storage.Driver)
	}
}

// provideDB 创建gorm连接
func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	if cfg.Storage.Driver == config.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("创建数据目录失败: %w", err)
		}
	}

	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// providePublisher 只有mq通知驱动需要连接RabbitMQ
func providePublisher(cfg *config.Config) (notification.Publisher, func(), error) {
	if cfg.Notification.Driver != config.NotifyMQ {
		return nil, func() {}, nil
	}
	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		return nil, nil, err
	}
	return publisher, func() { publisher.Close() }, nil
}

// provideNotifier 新资源通知
func provideNotifier(cfg *config.Config, publisher notification.Publisher) (catalog.Notifier, error) {
	return notification.NewSender(cfg, publisher, logrus.StandardLogger())
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expire)
}

// provideBlacklist 未启用Redis时不检查Token黑名单
func provideBlacklist(cfg *config.Config) (middleware.Blacklist, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, func() {}, nil
	}
	blacklist, cleanup, err := provideTokenBlacklist(cfg)
	if err != nil {
		return nil, nil, err
	}
	return blacklist, cleanup, nil
}

// provideTokenBlacklist 连接Redis并创建Token黑名单
func provideTokenBlacklist(cfg *config.Config) (*redis.TokenBlacklist, func(), error) {
	client, err := redis.NewClient(context.Background(), cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return redis.NewTokenBlacklist(client), func() { client.Close() }, nil
}

// provideRouter 组装用例与路由
func provideRouter(cfg *config.Config, stores *Stores, notifier catalog.Notifier, auth *middleware.AuthMiddleware) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logrus.StandardLogger()
	deps := router.Deps{
		Books:    appcatalog.NewUseCases(book.NewFamily(), stores.Books, notifier, logger),
		Vehicles: appcatalog.NewUseCases(vehicle.NewFamily(), stores.Vehicles, notifier, logger),
		Auth:     auth,
		Logger:   logger,
		Tracing:  cfg.Tracing.Enabled,
	}
	if cfg.Metrics.Enabled {
		deps.MetricsPath = cfg.Metrics.Path
	}
	return router.New(deps)
}

// initializeApp 手动依赖注入（与wire.go中的InitializeApp对应）
func initializeApp(cfg *config.Config) (*gin.Engine, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	stores, closeStores, err := provideStores(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanups = append(cleanups, closeStores)

	publisher, closePublisher, err := providePublisher(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, closePublisher)

	notifier, err := provideNotifier(cfg, publisher)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	blacklist, closeBlacklist, err := provideBlacklist(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, closeBlacklist)

	auth := middleware.NewAuthMiddleware(provideJWTManager(cfg), blacklist)
	return provideRouter(cfg, stores, notifier, auth), cleanup, nil
}
