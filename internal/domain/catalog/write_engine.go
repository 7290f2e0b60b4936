package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/catalog/pkg/objectid"
)

// WriteEngine 创建、更新、删除资源
//
// 业务上的失败以结果类型返回（见result.go），error只用于基础设施故障
// 引擎内部不加锁，并发安全由存储层的版本比较并递增保证
type WriteEngine[D Document] struct {
	family     *Family[D]
	store      Store[D]
	uniqueness *UniquenessChecker[D]
	notifier   Notifier
	logger     logrus.FieldLogger
	now        func() time.Time
}

// NewWriteEngine 创建写入引擎，notifier 可以为nil（不发送通知）
func NewWriteEngine[D Document](family *Family[D], store Store[D], notifier Notifier, logger logrus.FieldLogger) *WriteEngine[D] {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &WriteEngine[D]{
		family:     family,
		store:      store,
		uniqueness: NewUniquenessChecker(family, store),
		notifier:   notifier,
		logger:     logger.WithField("family", family.Name),
		now:        time.Now,
	}
}

// Family 返回引擎所属的资源族
func (e *WriteEngine[D]) Family() *Family[D] {
	return e.family
}

// Create 创建资源
//
// 流程：
// 1. 校验
// 2. 业务主键唯一性
// 3. 外部编号唯一性
// 4. 生成ID，版本号置0后写入
// 5. 发送通知（失败只记录日志）
func (e *WriteEngine[D]) Create(ctx context.Context, d D) (CreateResult, error) {
	if msgs := e.family.Validator.Validate(d, OpCreate); len(msgs) > 0 {
		return Invalid{Messages: msgs}, nil
	}

	key := d.NaturalKey()
	owner, found, err := e.uniqueness.KeyConflict(ctx, key, "")
	if err != nil {
		return nil, err
	}
	if found {
		return KeyExists{Key: key, OwnerID: owner}, nil
	}

	extID := d.ExternalID()
	if _, found, err = e.uniqueness.ExternalIDConflict(ctx, extID); err != nil {
		return nil, err
	} else if found {
		return ExternalIDExists{ExternalID: extID}, nil
	}

	now := e.now()
	meta := d.Metadata()
	meta.ID = objectid.NewAt(now)
	meta.Version = 0
	meta.CreatedAt = now
	meta.UpdatedAt = now

	if err := e.store.Insert(ctx, d); err != nil {
		// 检查之后被并发写入抢先，由唯一索引兜底
		var dup *DuplicateError
		if errors.As(err, &dup) {
			if dup.Field == e.family.ExternalIDField {
				return ExternalIDExists{ExternalID: extID}, nil
			}
			return KeyExists{Key: key}, nil
		}
		return nil, err
	}

	e.announce(ctx, d)

	return Created{ID: meta.ID, Version: meta.Version}, nil
}

// Update 整体替换资源
//
// token 为nil表示调用方未提供版本令牌
// 流程：令牌 → 校验 → 业务主键唯一性 → 资源存在 → 版本 → 替换
// 唯一性检查在存在性检查之前执行
func (e *WriteEngine[D]) Update(ctx context.Context, id string, d D, token *string) (UpdateResult, error) {
	if token == nil {
		return MissingPrecondition{}, nil
	}
	version, ok := ParseVersion(*token)
	if !ok {
		return VersionInvalid{Token: *token}, nil
	}

	if msgs := e.family.Validator.Validate(d, OpUpdate); len(msgs) > 0 {
		return Invalid{Messages: msgs}, nil
	}

	id = objectid.Canonical(id)
	key := d.NaturalKey()
	owner, found, err := e.uniqueness.KeyConflict(ctx, key, id)
	if err != nil {
		return nil, err
	}
	if found {
		return KeyExists{Key: key, OwnerID: owner}, nil
	}

	if !objectid.IsValid(id) {
		return NotExists{ID: id}, nil
	}
	stored, err := e.store.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return NotExists{ID: id}, nil
	}
	if err != nil {
		return nil, err
	}

	current := stored.Metadata()
	if !CheckVersion(version, current.Version) {
		return VersionOutdated{ID: id, Version: version}, nil
	}

	// 外部编号和创建时间沿用存储中的值
	meta := d.Metadata()
	meta.ID = id
	meta.Version = current.Version
	meta.CreatedAt = current.CreatedAt
	meta.UpdatedAt = e.now()
	d.SetExternalID(stored.ExternalID())

	newVersion, err := e.store.Replace(ctx, d, current.Version)
	switch {
	case errors.Is(err, ErrVersionConflict):
		return VersionOutdated{ID: id, Version: version}, nil
	case errors.Is(err, ErrNotFound):
		return NotExists{ID: id}, nil
	case err != nil:
		var dup *DuplicateError
		if errors.As(err, &dup) {
			return KeyExists{Key: key}, nil
		}
		return nil, err
	}

	meta.Version = newVersion
	return Updated{ID: id, Version: newVersion}, nil
}

// Delete 硬删除，幂等：资源不存在或ID格式错误时返回false
func (e *WriteEngine[D]) Delete(ctx context.Context, id string) (bool, error) {
	id = objectid.Canonical(id)
	if !objectid.IsValid(id) {
		return false, nil
	}
	return e.store.Delete(ctx, id)
}

func (e *WriteEngine[D]) announce(ctx context.Context, d D) {
	if e.notifier == nil || e.family.Announce == nil {
		return
	}
	subject, body := e.family.Announce(d)
	if err := e.notifier.Send(ctx, subject, body); err != nil {
		e.logger.WithError(err).WithField("id", d.Metadata().ID).Warn("发送通知失败")
	}
}
