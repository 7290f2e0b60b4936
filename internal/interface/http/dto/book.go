package dto

import (
	"github.com/xiebiao/catalog/internal/domain/book"
)

// BookRequest 创建/更新图书请求体
// 字段规则由领域校验器负责，这里只做JSON绑定
// 更新时isbn仍参与格式校验，校验通过后被丢弃（ISBN创建后不可修改）
type BookRequest struct {
	Title       string   `json:"title" example:"Go语言实战"`
	Rating      int      `json:"rating" example:"4"`
	Kind        string   `json:"kind" example:"PRINT"`
	Publisher   string   `json:"publisher" example:"FOO_PUBLISHER"`
	Price       float64  `json:"price" example:"59.9"`
	Discount    *float64 `json:"discount" example:"0.2"`
	Available   bool     `json:"available" example:"true"`
	PublishedOn string   `json:"published_on" example:"2024-01-15"`
	ISBN        string   `json:"isbn" example:"9787115428028"`
	Homepage    string   `json:"homepage" example:"https://example.com/go-in-action"`
	Keywords    []string `json:"keywords" example:"JAVASCRIPT"`
}

// ToEntity 请求体 → 领域实体
func (r *BookRequest) ToEntity() *book.Book {
	return &book.Book{
		Title:       r.Title,
		Rating:      r.Rating,
		Kind:        r.Kind,
		Publisher:   r.Publisher,
		Price:       r.Price,
		Discount:    r.Discount,
		Available:   r.Available,
		PublishedOn: r.PublishedOn,
		ISBN:        r.ISBN,
		Homepage:    r.Homepage,
		Keywords:    r.Keywords,
	}
}

// BookResponse 图书响应
type BookResponse struct {
	ID          string   `json:"id" example:"65937d25a1b2c3d4e5000001"`
	Version     int64    `json:"version" example:"0"`
	Title       string   `json:"title"`
	Rating      int      `json:"rating"`
	Kind        string   `json:"kind,omitempty"`
	Publisher   string   `json:"publisher"`
	Price       float64  `json:"price"`
	Discount    *float64 `json:"discount,omitempty"`
	Available   bool     `json:"available"`
	PublishedOn string   `json:"published_on,omitempty"`
	ISBN        string   `json:"isbn"`
	Homepage    string   `json:"homepage,omitempty"`
	Keywords    []string `json:"keywords"`
	CreatedAt   string   `json:"created_at" example:"2024-01-15 10:30:00"`
	UpdatedAt   string   `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// NewBookResponse 领域实体 → 响应
func NewBookResponse(b *book.Book) *BookResponse {
	return &BookResponse{
		ID:          b.ID,
		Version:     b.Version,
		Title:       b.Title,
		Rating:      b.Rating,
		Kind:        b.Kind,
		Publisher:   b.Publisher,
		Price:       b.Price,
		Discount:    b.Discount,
		Available:   b.Available,
		PublishedOn: b.PublishedOn,
		ISBN:        b.ISBN,
		Homepage:    b.Homepage,
		Keywords:    nonNil(b.Keywords),
		CreatedAt:   FormatTime(b.CreatedAt),
		UpdatedAt:   FormatTime(b.UpdatedAt),
	}
}

// BookCodec 图书的请求/响应转换
var BookCodec = Codec[*book.Book]{
	NewRequest: func() Request[*book.Book] { return &BookRequest{} },
	Render:     func(b *book.Book) interface{} { return NewBookResponse(b) },
}
