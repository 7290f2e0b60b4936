package catalog

import (
	"strings"
	"unicode/utf8"
)

// ExactKeyThreshold 业务主键查询值达到该长度时按精确匹配，否则按不区分大小写的包含匹配
const ExactKeyThreshold = 10

// KeyMatch 业务主键匹配条件
type KeyMatch struct {
	Value string
	Exact bool
}

// NewKeyMatch 根据查询值长度选择匹配方式
func NewKeyMatch(value string) *KeyMatch {
	return &KeyMatch{
		Value: value,
		Exact: utf8.RuneCountInString(value) >= ExactKeyThreshold,
	}
}

// Matches 判断业务主键是否满足条件
func (k *KeyMatch) Matches(key string) bool {
	if k.Exact {
		return key == k.Value
	}
	return strings.Contains(strings.ToLower(key), strings.ToLower(k.Value))
}

// Condition 字段等值条件
type Condition struct {
	Field string
	Value any
}

// Query 存储层查询条件，各条件之间为AND关系
type Query struct {
	Key *KeyMatch

	// Tags 资源必须包含的全部标签（子集语义）
	Tags []string

	Conditions []Condition
}

// Matches 在内存中判断资源是否满足查询（供不支持原生查询的存储使用）
func (q Query) Matches(d Document) bool {
	if q.Key != nil && !q.Key.Matches(d.NaturalKey()) {
		return false
	}

	if len(q.Tags) > 0 {
		have := make(map[string]struct{}, len(d.Tags()))
		for _, t := range d.Tags() {
			have[t] = struct{}{}
		}
		for _, t := range q.Tags {
			if _, ok := have[t]; !ok {
				return false
			}
		}
	}

	for _, c := range q.Conditions {
		v, ok := d.FieldValue(c.Field)
		if !ok || v != c.Value {
			return false
		}
	}
	return true
}
