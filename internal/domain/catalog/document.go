// Package catalog 目录资源的通用写入/校验引擎
//
// 图书、车辆等资源族共享同一套引擎：
// 校验 → 唯一性检查 → 版本守卫 → 持久化 → 通知
//
// 引擎只依赖本包定义的接口（Store、Notifier），
// 具体实现由基础设施层提供（依赖倒置）。
package catalog

import "time"

// Meta 所有资源共有的元数据
// ID创建时生成且不可变；Version从0开始，每次成功更新+1，调用方不能设置
type Meta struct {
	ID        string    `json:"id"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Metadata 返回可修改的元数据（嵌入Meta的实体自动获得该方法）
func (m *Meta) Metadata() *Meta {
	return m
}

// Document 可被引擎管理的资源
type Document interface {
	Metadata() *Meta

	// NaturalKey 业务主键（如书名），全局唯一
	NaturalKey() string

	// ExternalID 外部编号（如ISBN），全局唯一且创建后不可变
	ExternalID() string
	SetExternalID(id string)

	// Tags 集合型字段（关键词、位置等）
	Tags() []string

	// FieldValue 按查询字段名取值，字段不存在时ok为false
	FieldValue(field string) (value any, ok bool)
}

// Op 写操作类型，部分校验规则只在创建时生效
type Op int

const (
	OpCreate Op = iota
	OpUpdate
)

func (o Op) String() string {
	if o == OpCreate {
		return "create"
	}
	return "update"
}
