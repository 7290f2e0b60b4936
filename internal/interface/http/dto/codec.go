package dto

import (
	"time"

	"github.com/xiebiao/catalog/internal/domain/catalog"
)

// TimeLayout 响应中的时间格式
const TimeLayout = "2006-01-02 15:04:05"

// Request 可转换为领域实体的请求体
type Request[D catalog.Document] interface {
	ToEntity() D
}

// Codec 一个资源族的请求体构造与响应渲染
type Codec[D catalog.Document] struct {
	NewRequest func() Request[D]
	Render     func(D) interface{}
}

// RenderList 渲染列表，空结果渲染为 []
func (c Codec[D]) RenderList(docs []D) []interface{} {
	out := make([]interface{}, 0, len(docs))
	for _, d := range docs {
		out = append(out, c.Render(d))
	}
	return out
}

// FormatTime UTC时间格式化，零值返回空串
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
