package mysql

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/catalog/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 1. mysql: 生产环境，连接池参数来自配置
// 2. sqlite: 单机/测试环境，只保留一个连接，事务天然串行
// 3. 开发环境开启SQL日志（输出到logrus），生产环境关闭
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Storage.Driver {
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.Database.DSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.Storage.Path)
	default:
		return nil, fmt.Errorf("不支持的SQL驱动: %s", cfg.Storage.Driver)
	}

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(logrus.StandardLogger(), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	if cfg.Storage.Driver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	logrus.WithField("driver", cfg.Storage.Driver).Info("数据库连接成功")
	return db, nil
}

// Migrate 迁移表结构
// MySQL使用utf8mb4_bin排序规则：业务主键的等值比较与唯一索引都区分大小写
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "mysql" {
		db = db.Set("gorm:table_options", "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin")
	}
	if err := db.AutoMigrate(&BookModel{}, &VehicleModel{}, &TagModel{}); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	return nil
}

// BookModel GORM图书模型
// 1. ID为24位十六进制对象ID，由应用生成
// 2. Title、ISBN各有唯一索引，作为并发写入的最后防线
// 3. Keywords存放在catalog_tags表
type BookModel struct {
	ID          string    `gorm:"primaryKey;size:24;comment:资源ID"`
	Version     int64     `gorm:"not null;comment:版本号"`
	Title       string    `gorm:"uniqueIndex:uk_books_title;size:200;not null;comment:书名"`
	Rating      int       `gorm:"not null;comment:评分"`
	Kind        string    `gorm:"size:20;comment:类型"`
	Publisher   string    `gorm:"size:40;not null;comment:出版社"`
	Price       float64   `gorm:"not null;comment:价格"`
	Discount    *float64  `gorm:"comment:折扣"`
	Available   bool      `gorm:"not null;comment:是否可售"`
	PublishedOn string    `gorm:"size:10;comment:出版日期"`
	ISBN        string    `gorm:"column:isbn;uniqueIndex:uk_books_isbn;size:20;not null;comment:ISBN号"`
	Homepage    string    `gorm:"size:500;comment:主页"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

func (m BookModel) PrimaryKey() string {
	return m.ID
}

// VehicleModel GORM车辆模型
type VehicleModel struct {
	ID           string    `gorm:"primaryKey;size:24;comment:资源ID"`
	Version      int64     `gorm:"not null;comment:版本号"`
	Model        string    `gorm:"uniqueIndex:uk_vehicles_model;size:200;not null;comment:型号"`
	Rating       int       `gorm:"not null;comment:评分"`
	Kind         string    `gorm:"size:20;comment:类型"`
	Manufacturer string    `gorm:"size:40;not null;comment:制造商"`
	Price        float64   `gorm:"not null;comment:价格"`
	Discount     *float64  `gorm:"comment:折扣"`
	Available    bool      `gorm:"not null;comment:是否可售"`
	BuiltOn      string    `gorm:"size:10;comment:出厂日期"`
	SerialNumber string    `gorm:"uniqueIndex:uk_vehicles_serial_number;size:20;not null;comment:序列号"`
	Homepage     string    `gorm:"size:500;comment:主页"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (VehicleModel) TableName() string {
	return "vehicles"
}

func (m VehicleModel) PrimaryKey() string {
	return m.ID
}

// TagModel 资源标记（图书关键词、车辆位置），按资源ID归属
type TagModel struct {
	ID      uint   `gorm:"primaryKey"`
	OwnerID string `gorm:"uniqueIndex:uk_tags_owner_tag;size:24;not null;comment:资源ID"`
	Tag     string `gorm:"uniqueIndex:uk_tags_owner_tag;index;size:50;not null;comment:标记"`
}

// TableName 指定表名
func (TagModel) TableName() string {
	return "catalog_tags"
}
