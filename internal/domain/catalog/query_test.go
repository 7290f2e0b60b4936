package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyMatch(t *testing.T) {
	t.Run("短查询值不区分大小写包含匹配", func(t *testing.T) {
		m := NewKeyMatch("a")
		assert.False(t, m.Exact)
		assert.True(t, m.Matches("Alpha"))
		assert.True(t, m.Matches("Gamma"))
		assert.False(t, m.Matches("Echo"))
	})

	t.Run("十个字符以上精确匹配", func(t *testing.T) {
		m := NewKeyMatch("Go in Action")
		assert.True(t, m.Exact)
		assert.True(t, m.Matches("Go in Action"))
		assert.False(t, m.Matches("go in action"))
		assert.False(t, m.Matches("Go in Action 2nd"))
	})

	t.Run("按字符而非字节计数", func(t *testing.T) {
		// 9个汉字，27个字节
		assert.False(t, NewKeyMatch("深入理解计算机系统").Exact)
	})
}

func TestQuery_Matches(t *testing.T) {
	g := &gadget{Name: "Alpha", Rating: 4, Labels: []string{"RED", "BLUE"}}

	tests := []struct {
		name string
		q    Query
		want bool
	}{
		{"空查询", Query{}, true},
		{"标签子集", Query{Tags: []string{"RED"}}, true},
		{"全部标签", Query{Tags: []string{"RED", "BLUE"}}, true},
		{"缺少标签", Query{Tags: []string{"GREEN"}}, false},
		{"字段相等", Query{Conditions: []Condition{{Field: "rating", Value: 4}}}, true},
		{"字段不等", Query{Conditions: []Condition{{Field: "rating", Value: 3}}}, false},
		{"类型不同", Query{Conditions: []Condition{{Field: "rating", Value: "4"}}}, false},
		{"未知字段", Query{Conditions: []Condition{{Field: "colour", Value: "red"}}}, false},
		{"主键与标签组合", Query{Key: NewKeyMatch("ph"), Tags: []string{"BLUE"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.Matches(g))
		})
	}
}
