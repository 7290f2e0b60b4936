package catalog

// CreateResult 创建操作的结果
// 可能的取值：Created、Invalid、KeyExists、ExternalIDExists
type CreateResult interface {
	createResult()
}

// UpdateResult 更新操作的结果
// 可能的取值：Updated、Invalid、KeyExists、NotExists、
// VersionInvalid、VersionOutdated、MissingPrecondition
type UpdateResult interface {
	updateResult()
}

// Created 创建成功
type Created struct {
	ID      string
	Version int64
}

// Updated 更新成功
type Updated struct {
	ID      string
	Version int64
}

// Invalid 校验失败
type Invalid struct {
	Messages []string
}

// KeyExists 业务主键已被其他资源使用
type KeyExists struct {
	Key     string
	OwnerID string
}

// ExternalIDExists 外部编号已被使用
type ExternalIDExists struct {
	ExternalID string
}

// NotExists 资源不存在
type NotExists struct {
	ID string
}

// VersionInvalid 版本令牌格式错误
type VersionInvalid struct {
	Token string
}

// VersionOutdated 版本令牌已过期
type VersionOutdated struct {
	ID      string
	Version int64
}

// MissingPrecondition 未提供版本令牌
type MissingPrecondition struct{}

func (Created) createResult()          {}
func (Invalid) createResult()          {}
func (KeyExists) createResult()        {}
func (ExternalIDExists) createResult() {}

func (Updated) updateResult()             {}
func (Invalid) updateResult()             {}
func (KeyExists) updateResult()           {}
func (NotExists) updateResult()           {}
func (VersionInvalid) updateResult()      {}
func (VersionOutdated) updateResult()     {}
func (MissingPrecondition) updateResult() {}
