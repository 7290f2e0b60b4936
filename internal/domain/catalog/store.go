package catalog

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound 资源不存在
	ErrNotFound = errors.New("catalog: document not found")

	// ErrVersionConflict 替换时存储中的版本号与期望值不一致
	ErrVersionConflict = errors.New("catalog: version conflict")
)

// DuplicateError 唯一索引冲突（唯一性检查之后仍被并发写入抢先时触发）
type DuplicateError struct {
	Field string
	Err   error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("catalog: duplicate value for %s: %v", e.Field, e.Err)
}

func (e *DuplicateError) Unwrap() error {
	return e.Err
}

// Store 资源持久化接口（依赖倒置：领域层定义，基础设施层实现）
type Store[D Document] interface {
	// FindByID 不存在时返回ErrNotFound
	FindByID(ctx context.Context, id string) (D, error)

	// Find 按条件查询，结果按业务主键排序
	Find(ctx context.Context, q Query) ([]D, error)

	// Insert 唯一索引冲突时返回*DuplicateError
	Insert(ctx context.Context, d D) error

	// Replace 整体替换资源（外部编号与创建时间除外），并原子地比较并递增版本号
	// 仅当存储中的版本等于expectedVersion时写入，返回新版本号
	// 版本不一致返回ErrVersionConflict，资源不存在返回ErrNotFound
	Replace(ctx context.Context, d D, expectedVersion int64) (int64, error)

	// Delete 硬删除，返回是否删除了资源
	Delete(ctx context.Context, id string) (bool, error)

	// FindOwner 精确（区分大小写）查找某字段取值的所属资源ID
	FindOwner(ctx context.Context, field, value string) (id string, found bool, err error)
}

// Notifier 通知发送接口
type Notifier interface {
	Send(ctx context.Context, subject, body string) error
}
