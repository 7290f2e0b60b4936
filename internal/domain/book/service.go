package book

import (
	"github.com/xiebiao/catalog/internal/domain/catalog"
)

// 查询字段名
const (
	FieldTitle = "title"
	FieldISBN  = "isbn"
)

// FamilyName 资源族名称
const FamilyName = "book"

var rules = catalog.NewRules(messages)

// Validate 校验图书，返回有序的违规信息
// 结构体标签规则之外，创建时ISBN必填
func Validate(b *Book, op catalog.Op) []string {
	msgs := rules.Check(b)
	if op == catalog.OpCreate && b.ISBN == "" {
		msgs = append(msgs, rules.Message(FieldISBN, "required"))
	}
	return msgs
}

// NewFamily 图书资源族定义
func NewFamily() *catalog.Family[*Book] {
	return &catalog.Family[*Book]{
		Name:            FamilyName,
		KeyField:        FieldTitle,
		ExternalIDField: FieldISBN,
		Validator:       catalog.ValidatorFunc[*Book](Validate),
		Filters: map[string]catalog.FilterParser{
			"rating":       catalog.IntFilter,
			"kind":         catalog.StringFilter,
			"publisher":    catalog.StringFilter,
			"price":        catalog.FloatFilter,
			"discount":     catalog.FloatFilter,
			"available":    catalog.BoolFilter,
			"published_on": catalog.StringFilter,
			FieldISBN:      catalog.StringFilter,
			"homepage":     catalog.StringFilter,
		},
		Flags: map[string]string{
			"javascript": KeywordJavaScript,
			"typescript": KeywordTypeScript,
		},
		Announce: func(b *Book) (string, string) {
			return "新图书 " + b.ID, "书名: " + b.Title
		},
	}
}
