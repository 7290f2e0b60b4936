package catalog

import "context"

// UniquenessChecker 检查业务主键和外部编号是否已被其他资源使用
// 匹配为精确匹配（区分大小写），与查询时的模糊匹配不同
type UniquenessChecker[D Document] struct {
	family *Family[D]
	store  Store[D]
}

// NewUniquenessChecker 创建唯一性检查器
func NewUniquenessChecker[D Document](family *Family[D], store Store[D]) *UniquenessChecker[D] {
	return &UniquenessChecker[D]{family: family, store: store}
}

// KeyConflict 查找使用该业务主键的其他资源，excludeID 为正在更新的资源（创建时为空）
func (u *UniquenessChecker[D]) KeyConflict(ctx context.Context, key, excludeID string) (string, bool, error) {
	return u.conflict(ctx, u.family.KeyField, key, excludeID)
}

// ExternalIDConflict 查找使用该外部编号的资源
func (u *UniquenessChecker[D]) ExternalIDConflict(ctx context.Context, externalID string) (string, bool, error) {
	if externalID == "" {
		return "", false, nil
	}
	return u.conflict(ctx, u.family.ExternalIDField, externalID, "")
}

func (u *UniquenessChecker[D]) conflict(ctx context.Context, field, value, excludeID string) (string, bool, error) {
	owner, found, err := u.store.FindOwner(ctx, field, value)
	if err != nil {
		return "", false, err
	}
	if !found || owner == excludeID {
		return "", false, nil
	}
	return owner, true, nil
}
