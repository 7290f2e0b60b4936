package book

import (
	"github.com/xiebiao/catalog/internal/domain/catalog"
)

// 图书类型
const (
	KindKindle = "KINDLE"
	KindPrint  = "PRINT"
)

// 出版社
const (
	PublisherFoo = "FOO_PUBLISHER"
	PublisherBar = "BAR_PUBLISHER"
)

// 关键词标记
const (
	KeywordJavaScript = "JAVASCRIPT"
	KeywordTypeScript = "TYPESCRIPT"
)

// Book 图书实体
// 1. Title是业务主键，全局唯一
// 2. ISBN是外部编号，创建时必填，之后不可修改
// 3. 更新为整体替换：未提供的字段会被清空（ISBN除外）
type Book struct {
	catalog.Meta

	Title       string   `json:"title" validate:"required,keyword"`
	Rating      int      `json:"rating" validate:"gte=0,lte=5"`
	Kind        string   `json:"kind" validate:"omitempty,oneof=KINDLE PRINT"`
	Publisher   string   `json:"publisher" validate:"required,oneof=FOO_PUBLISHER BAR_PUBLISHER"`
	Price       float64  `json:"price" validate:"gte=0"`
	Discount    *float64 `json:"discount" validate:"omitempty,gt=0,lt=1"`
	Available   bool     `json:"available"`
	PublishedOn string   `json:"published_on" validate:"omitempty,datetime=2006-01-02"`
	ISBN        string   `json:"isbn" validate:"omitempty,isbn"`
	Homepage    string   `json:"homepage" validate:"omitempty,url"`
	Keywords    []string `json:"keywords"`
}

func (b *Book) NaturalKey() string { return b.Title }

func (b *Book) ExternalID() string { return b.ISBN }

func (b *Book) SetExternalID(isbn string) { b.ISBN = isbn }

func (b *Book) Tags() []string { return b.Keywords }

// FieldValue 查询字段取值，字段名与查询参数、数据库列名一致
func (b *Book) FieldValue(field string) (any, bool) {
	switch field {
	case FieldTitle:
		return b.Title, true
	case "rating":
		return b.Rating, true
	case "kind":
		return b.Kind, true
	case "publisher":
		return b.Publisher, true
	case "price":
		return b.Price, true
	case "discount":
		if b.Discount == nil {
			return nil, true
		}
		return *b.Discount, true
	case "available":
		return b.Available, true
	case "published_on":
		return b.PublishedOn, true
	case FieldISBN:
		return b.ISBN, true
	case "homepage":
		return b.Homepage, true
	}
	return nil, false
}
