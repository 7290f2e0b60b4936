package catalog

import "strconv"

// Validator 校验候选资源，返回有序的违规信息，空切片表示通过
type Validator[D Document] interface {
	Validate(d D, op Op) []string
}

// ValidatorFunc 函数适配器
type ValidatorFunc[D Document] func(d D, op Op) []string

func (f ValidatorFunc[D]) Validate(d D, op Op) []string {
	return f(d, op)
}

// FilterParser 将查询参数的原始字符串转换为字段值，转换失败返回false
type FilterParser func(raw string) (any, bool)

// Family 一个资源族的全部差异点，引擎本身与资源类型无关
type Family[D Document] struct {
	// Name 资源族名称（book、vehicle），用于日志、指标、通知
	Name string

	// KeyField 业务主键的字段名（同时也是查询参数名）
	KeyField string

	// ExternalIDField 外部编号的字段名
	ExternalIDField string

	Validator Validator[D]

	// Filters 允许作为查询条件的普通字段
	Filters map[string]FilterParser

	// Flags 布尔查询参数到标签的映射（如 javascript → JAVASCRIPT）
	Flags map[string]string

	// Announce 生成创建成功后的通知内容
	Announce func(d D) (subject, body string)
}

// Allowed 判断查询参数是否在允许列表中
func (f *Family[D]) Allowed(criterion string) bool {
	if criterion == f.KeyField {
		return true
	}
	if _, ok := f.Flags[criterion]; ok {
		return true
	}
	_, ok := f.Filters[criterion]
	return ok
}

// =========================================
// 常用FilterParser
// =========================================

// StringFilter 原样匹配
func StringFilter(raw string) (any, bool) {
	return raw, true
}

// IntFilter 整数字段
func IntFilter(raw string) (any, bool) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return v, true
}

// FloatFilter 浮点字段
func FloatFilter(raw string) (any, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	return v, true
}

// BoolFilter 布尔字段
func BoolFilter(raw string) (any, bool) {
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, false
	}
	return v, true
}
